package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"notifier/config"
	"notifier/internal/channel"
	"notifier/internal/db"
	"notifier/internal/notify"
	"notifier/internal/repository"
	"notifier/pkg/logger"
	"notifier/pkg/mq"
)

// Reminder batch job. Each tick loads confirmed bookings whose slot falls
// inside the reminder window and pushes them through SendBatch; the audit
// anti-join in the repository keeps repeated ticks from re-notifying.
func main() {
	cfg := config.Load()

	log := logger.New()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	auditRepo := repository.NewAuditLogRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)
	emailSender := channel.NewResendSender(cfg.Email, log)
	smsSender := channel.NewGatewaySender(cfg.SMS, log)

	svc := notify.New(notify.Config{}, emailSender, smsSender, auditRepo, publisher, log)

	run := func(kind notify.Kind, lead, window time.Duration) {
		payloads, err := bookingRepo.ListDueReminders(ctx, kind, lead, window)
		if err != nil {
			log.Error("failed to load due reminders",
				zap.String("kind", kind.String()),
				zap.Error(err),
			)
			return
		}
		if len(payloads) == 0 {
			return
		}
		res, err := svc.SendBatch(ctx, kind, payloads, nil)
		if err != nil {
			log.Error("reminder batch failed",
				zap.String("kind", kind.String()),
				zap.Error(err),
			)
			return
		}
		log.Info("reminder batch done",
			zap.String("kind", kind.String()),
			zap.Int("total", res.Total),
			zap.Int("succeeded", res.Succeeded),
			zap.Int("failed", res.Failed),
		)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Cron.Reminder24h, func() {
		run(notify.KindReminder24h, 24*time.Hour, time.Hour)
	}); err != nil {
		log.Fatal("invalid reminder_24h schedule", zap.Error(err))
	}
	if _, err := c.AddFunc(cfg.Cron.Reminder1h, func() {
		run(notify.KindReminder1h, time.Hour, 10*time.Minute)
	}); err != nil {
		log.Fatal("invalid reminder_1h schedule", zap.Error(err))
	}

	c.Start()
	log.Info("Reminder cron started",
		zap.String("reminder_24h", cfg.Cron.Reminder24h),
		zap.String("reminder_1h", cfg.Cron.Reminder1h),
	)

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("Reminder cron stopped")
}
