package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rize")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_ADDR", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("OUTBOX_POLL_DELAY", "2s")
	t.Setenv("OUTBOUND_ALLOW_CIDRS", "10.20.0.0/16,fd00::/8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, ":8081", cfg.ObsHTTPAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollDelay)
	assert.Equal(t, "rize-auth", cfg.JWTIssuer)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, int64(40_000_000), cfg.MaxImagePixels)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.20.0.0/16"),
		netip.MustParsePrefix("fd00::/8"),
	}, cfg.OutboundAllow)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s3cret")

	_, err := Load()
	assert.Error(t, err)
}

func TestFixPort(t *testing.T) {
	assert.Equal(t, ":80", fixPort("80"))
	assert.Equal(t, "0.0.0.0:80", fixPort("0.0.0.0:80"))
	assert.Equal(t, "", fixPort(""))
}
