package mqhandler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	contracts "notifier/contracts/mq"
	"notifier/internal/notify"
	"notifier/pkg/metrics"
)

// Deduper guards against MQ redelivery. *redis.Deduper satisfies it.
type Deduper interface {
	AcquireOnce(ctx context.Context, handler, eventID string) bool
}

// DispatchHandler consumes notify.dispatch events and drives the
// orchestrator.
type DispatchHandler struct {
	svc     *notify.Service
	deduper Deduper
	queue   string
	logger  *zap.Logger
}

func NewDispatchHandler(svc *notify.Service, deduper Deduper, queue string, logger *zap.Logger) *DispatchHandler {
	return &DispatchHandler{svc: svc, deduper: deduper, queue: queue, logger: logger}
}

func (h *DispatchHandler) HandleDispatchRequested(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(contracts.RoutingKeyDispatchRequested, h.queue, time.Since(start))
	}()

	var event contracts.DispatchRequestedPayload
	if err := json.Unmarshal(raw, &event); err != nil {
		return err
	}

	kind, err := notify.ParseKind(event.Kind)
	if err != nil {
		// Poison message: requeueing would loop forever, so drop it loudly.
		h.logger.Error("dropping dispatch event with invalid kind",
			zap.String("event_id", event.EventID),
			zap.String("kind", event.Kind),
		)
		return nil
	}

	if event.EventID != "" && !h.deduper.AcquireOnce(ctx, "dispatch", event.EventID) {
		h.logger.Info("skipping duplicate dispatch event",
			zap.String("event_id", event.EventID),
			zap.String("correlation_id", event.CorrelationID),
		)
		return nil
	}

	res, err := h.svc.Dispatch(ctx, kind, toPayload(event), toOverride(event))
	if err != nil {
		return err
	}

	h.logger.Info("dispatch event processed",
		zap.String("event_id", event.EventID),
		zap.String("correlation_id", event.CorrelationID),
		zap.String("kind", kind.String()),
		zap.Bool("email_success", res.Email.Success),
		zap.Bool("sms_success", res.SMS.Success),
	)
	return nil
}

func toPayload(e contracts.DispatchRequestedPayload) notify.Payload {
	return notify.Payload{
		CorrelationID:      e.CorrelationID,
		RecipientName:      e.RecipientName,
		RecipientEmail:     e.RecipientEmail,
		RecipientPhone:     e.RecipientPhone,
		CounterpartName:    e.CounterpartName,
		CounterpartEmail:   e.CounterpartEmail,
		ServiceName:        e.ServiceName,
		Date:               e.Date,
		StartTime:          e.StartTime,
		EndTime:            e.EndTime,
		Message:            e.Message,
		CancellationReason: e.CancellationReason,
		NewDate:            e.NewDate,
		NewTime:            e.NewTime,
	}
}

func toOverride(e contracts.DispatchRequestedPayload) *notify.ChannelOverride {
	if e.Email == nil && e.SMS == nil {
		return nil
	}
	return &notify.ChannelOverride{Email: e.Email, SMS: e.SMS}
}
