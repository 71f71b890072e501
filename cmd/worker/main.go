package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"notifier/config"
	contracts "notifier/contracts/mq"
	"notifier/internal/channel"
	"notifier/internal/db"
	"notifier/internal/mqhandler"
	"notifier/internal/notify"
	"notifier/internal/repository"
	"notifier/pkg/logger"
	"notifier/pkg/mq"
	redisclient "notifier/pkg/redis"
)

func main() {
	cfg := config.Load()

	log := logger.New()
	defer log.Sync()

	log.Info("Starting notification worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()
	deduper := redisclient.NewDeduper(rdb, time.Hour)

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	auditRepo := repository.NewAuditLogRepository(dbConn)
	emailSender := channel.NewResendSender(cfg.Email, log)
	smsSender := channel.NewGatewaySender(cfg.SMS, log)

	svc := notify.New(notify.Config{}, emailSender, smsSender, auditRepo, publisher, log)
	handler := mqhandler.NewDispatchHandler(svc, deduper, cfg.Worker.Queue, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.Worker.Queue, contracts.RoutingKeyDispatchRequested, log)
	if err != nil {
		log.Fatal("failed to init dispatch consumer", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(handler.HandleDispatchRequested)

	go func() {
		if err := consumer.StartConsuming(ctx); err != nil && ctx.Err() == nil {
			log.Fatal("dispatch consumer failed", zap.Error(err))
		}
	}()

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.Worker.MetricsAddr, nil); err != nil {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	log.Info("Worker ready", zap.String("queue", cfg.Worker.Queue))

	<-ctx.Done()
	log.Info("Shutting down")
}
