package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ratedesk/internal/app/session"
	"ratedesk/internal/infra/broker/kafka"
	redisstore "ratedesk/internal/infra/cache/redis"
	"ratedesk/internal/infra/config"
	mongodb "ratedesk/internal/infra/db/mongo"
	ginserver "ratedesk/internal/infra/http/gin"
	"ratedesk/internal/infra/inventory"
	"ratedesk/internal/infra/obs"
	"ratedesk/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	client := inventory.NewClient(cfg.InventoryBaseURL, &http.Client{Timeout: cfg.InventoryTimeout}, logger)
	adapter := inventory.EngineAdapter{Client: client}

	manager := session.NewManager(time.Now)
	loader := session.NewLoader(adapter, logger)
	saver := &session.Saver{Submitter: adapter, Logger: logger}

	var mongoClient *mongodb.Client
	var auditRepo *mongodb.AuditRepository
	if cfg.MongoURI != "" {
		mongoClient, err = mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Warn("mongo unavailable, submissions will not be audited", "error", err)
		} else {
			auditRepo = mongodb.NewAuditRepository(mongoClient)
			saver.Audit = auditRepo
			defer mongoClient.Close(context.Background())
		}
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Warn("kafka unavailable, bulk-update events disabled", "error", err)
		} else {
			saver.Events = &kafka.EventPublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
			defer producer.Close()
		}
	}

	checks := map[string]func() error{}
	if mongoClient != nil {
		checks["mongo"] = func() error { return mongoClient.Ping(context.Background()) }
	}

	var markers session.MarkerStore = memory.NewMarkerStore()
	if cfg.RedisAddr != "" {
		store := redisstore.NewMarkerStore(cfg.RedisAddr, cfg.MarkerTTL)
		if err := store.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, sync markers kept in process", "error", err)
		} else {
			markers = store
			checks["redis"] = func() error { return store.Ping(context.Background()) }
		}
	}

	poller := &session.SyncPoller{
		Source:   adapter,
		Markers:  markers,
		Interval: cfg.SyncPollInterval,
		Logger:   logger,
		OnChange: func(ctx context.Context, groupID int64) error {
			s, ok := manager.ByGroup(groupID)
			if !ok {
				return nil
			}
			w := s.Window()
			err := loader.Load(ctx, s, w.From, w.To)
			if errors.Is(err, context.Canceled) {
				// A user-driven load superseded the refresh; the data is
				// current either way.
				return nil
			}
			return err
		},
	}
	go func() {
		_ = poller.RunAll(ctx, manager.Groups)
	}()

	sessionHandler := ginserver.SessionHandler{Sessions: manager, Loader: loader, Saver: saver}
	handlers := ginserver.Handlers{
		Session:  sessionHandler,
		RatePlan: ginserver.RatePlanHandler{Inventory: client},
		Booking:  ginserver.BookingHandler{Inventory: client},
		Audit:    ginserver.AuditHandler{Audit: auditReader(auditRepo), Inventory: client},
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: checks}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// auditReader avoids handing the handler a typed nil when mongo is absent.
func auditReader(repo *mongodb.AuditRepository) ginserver.AuditReader {
	if repo == nil {
		return nil
	}
	return repo
}

