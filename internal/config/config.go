package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// ───── Infrastructure ─────
	DatabaseURL  string   `env:"DATABASE_URL,required,notEmpty"`
	RedisAddr    string   `env:"REDIS_ADDR,required,notEmpty"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	AutoMigrate  bool     `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	// ───── Runtime ─────
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	ObsHTTPAddr string `env:"OBS_HTTP_ADDR" envDefault:":8081"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"rize"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	// ───── JWT Security ─────
	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer   string `env:"JWT_ISSUER" envDefault:"rize-auth"`
	JWTAudience string `env:"JWT_AUDIENCE" envDefault:"rize-clients"`

	// ───── Cache ─────
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"1h"`

	// ───── Media storage ─────
	S3Bucket       string        `env:"S3_BUCKET" envDefault:"rize-media"`
	S3PublicBase   string        `env:"S3_PUBLIC_BASE_URL"`
	MaxUploadMB    int64         `env:"MAX_UPLOAD_MB" envDefault:"20"`
	MaxImagePixels int64         `env:"MAX_IMAGE_PIXELS" envDefault:"40000000"`
	PresignTTL     time.Duration `env:"PRESIGN_TTL" envDefault:"15m"`

	// ───── Background jobs ─────
	LinkFetchTimeout time.Duration `env:"LINK_FETCH_TIMEOUT" envDefault:"5s"`
	// Ranges the link and import fetchers may reach besides public addresses.
	OutboundAllow     []netip.Prefix `env:"OUTBOUND_ALLOW_CIDRS" envSeparator:","`
	OutboxBatchSize   int            `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxPollDelay   time.Duration  `env:"OUTBOX_POLL_DELAY" envDefault:"500ms"`
	OutboxMaxRetries  int            `env:"OUTBOX_MAX_RETRIES" envDefault:"5"`
	ImportTopic       string         `env:"IMPORT_TOPIC" envDefault:"rize.profile.import"`
	EventsTopic       string         `env:"EVENTS_TOPIC" envDefault:"rize.events"`
	ImportConsumerGrp string         `env:"IMPORT_CONSUMER_GROUP" envDefault:"rize-importer"`

	// ───── Observability ─────
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"http://localhost:4318/v1/traces"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.HTTPAddr = fixPort(cfg.HTTPAddr)
	cfg.ObsHTTPAddr = fixPort(cfg.ObsHTTPAddr)
	return cfg, nil
}

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
