package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/cache"
	"github.com/rize-social/rize/internal/config"
	"github.com/rize-social/rize/internal/handler"
	"github.com/rize-social/rize/internal/importer"
	"github.com/rize-social/rize/internal/kafka"
	"github.com/rize-social/rize/internal/linkmeta"
	"github.com/rize-social/rize/internal/media"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/outbox"
	"github.com/rize-social/rize/internal/repository"
	"github.com/rize-social/rize/internal/schema"
	"github.com/rize-social/rize/internal/service"
	"github.com/rize-social/rize/internal/tx"
)

const importMaxAttempts = 3

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger(context.Background()).Fatal("invalid configuration", zap.Error(err))
	}

	// Observability
	observability.InitLogger(cfg.ServiceName, cfg.LogLevel)
	log := observability.Log
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	// Database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := schema.Migrate(db, log); err != nil {
			log.Fatal("schema migration failed", zap.Error(err))
		}
	}

	// Redis
	rdb := cache.New(cfg.RedisAddr)
	defer rdb.Close()

	// HTTP Server for Observability (Metrics & Health)
	obsMux := chi.NewRouter()
	if cfg.MetricsEnabled {
		obsMux.Handle("/metrics", promhttp.Handler())
	}
	obsMux.Get("/health/live", observability.HealthLiveHandler)
	obsMux.Get("/health/ready", observability.HealthReadyHandler(db, cache.Pinger(rdb)))
	obsSrv := &http.Server{Addr: cfg.ObsHTTPAddr, Handler: obsMux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("HTTP observability server started", zap.String("addr", cfg.ObsHTTPAddr))
		if err := obsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP observability server failed", zap.Error(err))
		}
	}()

	// Object storage
	store, err := media.NewS3Store(ctx, cfg.S3Bucket, cfg.S3PublicBase)
	if err != nil {
		log.Fatal("s3 client init failed", zap.Error(err))
	}

	// Repositories
	txm := &tx.Manager{DB: db}
	profileRepo := &repository.ProfileRepo{DB: db}
	sectionRepo := &repository.SectionRepo{DB: db}
	mediaRepo := &repository.MediaRepo{DB: db}
	importRepo := &repository.ImportRepo{DB: db}
	outboxRepo := outbox.NewRepository(db)

	// Services
	profileSvc := &service.ProfileService{
		Repo:     profileRepo,
		Sections: sectionRepo,
		Cache:    &cache.ProfileCache{R: rdb, TTL: cfg.ProfileCacheTTL},
		Outbox:   outboxRepo,
		Tx:       txm,
	}
	services := handler.Services{
		Profiles: profileSvc,
		Sections: &service.SectionService{
			Repo:     sectionRepo,
			Profiles: profileSvc,
			Cache:    &cache.SectionCache{R: rdb, TTL: cfg.ProfileCacheTTL},
			Tx:       txm,
		},
		Posts: &service.PostService{
			Posts:      &repository.PostRepo{DB: db},
			Engagement: &repository.EngagementRepo{DB: db},
			Media:      mediaRepo,
			Links:      linkmeta.NewFetcher(cfg.LinkFetchTimeout, cfg.OutboundAllow...),
			Profiles:   profileSvc,
			Outbox:     outboxRepo,
			Tx:         txm,
		},
		Content: &service.ContentService{
			Repo:     &repository.ContentRepo{DB: db},
			Media:    mediaRepo,
			Profiles: profileSvc,
			Tx:       txm,
		},
		Social: &service.SocialService{
			Repo:     &repository.SocialRepo{DB: db},
			Profiles: profileSvc,
		},
		Media: &service.MediaService{
			Repo:       mediaRepo,
			Store:      store,
			MaxBytes:   cfg.MaxUploadMB << 20,
			MaxPixels:  cfg.MaxImagePixels,
			PresignTTL: cfg.PresignTTL,
		},
		Imports: &importer.Service{
			Jobs:   importRepo,
			Outbox: outboxRepo,
			Tx:     txm,
		},
	}

	// Kafka producer + outbox worker
	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	worker := &outbox.Worker{
		DB:         db,
		Producer:   producer,
		Route:      outbox.TopicRouter(cfg.ImportTopic, cfg.EventsTopic),
		Service:    cfg.ServiceName,
		BatchSize:  cfg.OutboxBatchSize,
		PollDelay:  cfg.OutboxPollDelay,
		MaxRetries: cfg.OutboxMaxRetries,
	}
	go worker.Start(ctx)

	// Kafka consumer for import jobs
	importConsumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ImportTopic, cfg.ImportConsumerGrp,
		importMaxAttempts, importer.NewHandler(importRepo, txm, profileSvc, cfg.LinkFetchTimeout, cfg.OutboundAllow...))
	defer importConsumer.Close()
	go importConsumer.Start(ctx)

	// HTTP server
	mux := handler.NewRouter(cfg, services, db, cache.Pinger(rdb))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(mux, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("rize HTTP started", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("received signal, initiating shutdown")
	cancel() // stop outbox worker + kafka consumer

	ctxShut, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()

	if err := srv.Shutdown(ctxShut); err != nil {
		log.Error("HTTP shutdown failed", zap.Error(err))
	}
	_ = obsSrv.Shutdown(ctxShut)
	log.Info("rize stopped")
}
