package notify

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	contracts "notifier/contracts/mq"
	"notifier/internal/model"
	"notifier/pkg/metrics"
)

// EmailSender renders and transmits one email for a notification kind.
type EmailSender interface {
	SendEmail(ctx context.Context, kind Kind, p Payload) error
}

// SMSSender renders and transmits one text message for a notification kind.
type SMSSender interface {
	SendSMS(ctx context.Context, kind Kind, p Payload) error
}

// AuditStore persists the append-only delivery audit trail.
type AuditStore interface {
	Insert(ctx context.Context, rec *model.AuditRecord) error
	ListByCorrelationID(ctx context.Context, correlationID string) ([]model.AuditRecord, error)
}

// EventPublisher emits delivery outcome events for other services.
// *mq.Publisher satisfies it.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// Config tunes the orchestrator.
type Config struct {
	// PaceInterval is the minimum spacing between batch items, protecting
	// downstream gateway throughput ceilings. Zero means the 100ms
	// default; negative disables pacing.
	PaceInterval time.Duration
}

const defaultPaceInterval = 100 * time.Millisecond

// Service orchestrates notification delivery across email and SMS: channel
// selection, bounded retries, audit logging and batch scheduling. It holds
// no mutable state of its own, so one instance is shared freely across
// goroutines.
type Service struct {
	email  EmailSender
	sms    SMSSender
	store  AuditStore
	events EventPublisher // optional
	retry  *retryer
	pace   time.Duration
	logger *zap.Logger
}

func New(cfg Config, email EmailSender, sms SMSSender, store AuditStore, events EventPublisher, logger *zap.Logger) *Service {
	pace := cfg.PaceInterval
	if pace == 0 {
		pace = defaultPaceInterval
	} else if pace < 0 {
		pace = 0
	}
	return &Service{
		email:  email,
		sms:    sms,
		store:  store,
		events: events,
		retry:  newRetryer(logger),
		pace:   pace,
		logger: logger,
	}
}

// Dispatch delivers one notification to one recipient over the selected
// channels. Channel selection is resolved once, up front; a channel is
// attempted only when selected and the matching contact field is present.
// Delivery failures never surface as errors, they are captured in the
// returned outcomes. The only error is an invalid kind, which is a caller
// bug.
func (s *Service) Dispatch(ctx context.Context, kind Kind, p Payload, override *ChannelOverride) (DispatchResult, error) {
	if !kind.IsValid() {
		return DispatchResult{}, fmt.Errorf("unknown notification kind: %q", kind)
	}

	channels := kind.DefaultChannels().Apply(override)
	res := DispatchResult{Email: skipped(), SMS: skipped()}

	if channels.Email && p.RecipientEmail != "" {
		res.Email = s.retry.do(ctx, "email "+kind.String(), func(ctx context.Context) error {
			return s.email.SendEmail(ctx, kind, p)
		})
		s.recordOutcome(ctx, kind, ChannelEmail, p, p.RecipientEmail, res.Email)
	}

	if channels.SMS && p.RecipientPhone != "" {
		res.SMS = s.retry.do(ctx, "sms "+kind.String(), func(ctx context.Context) error {
			return s.sms.SendSMS(ctx, kind, p)
		})
		s.recordOutcome(ctx, kind, ChannelSMS, p, p.RecipientPhone, res.SMS)
	}

	return res, nil
}

// recordOutcome writes the audit row and publishes the outcome event for one
// attempted channel. Both are best-effort: a failed audit write or publish
// must never turn a delivered notification into a reported failure.
func (s *Service) recordOutcome(ctx context.Context, kind Kind, channel string, p Payload, recipient string, out Outcome) {
	status := model.AuditStatusSent
	if !out.Success {
		status = model.AuditStatusFailed
	}
	metrics.RecordDelivery(kind.String(), channel, status)
	metrics.ObserveDeliveryAttempts(channel, out.Attempts)

	now := time.Now()
	rec := &model.AuditRecord{
		CorrelationID: p.CorrelationID,
		Kind:          kind.String(),
		Channel:       channel,
		Status:        status,
		Recipient:     recipient,
		ErrorMessage:  out.Error,
		SentAt:        now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		metrics.IncAuditWriteFailure()
		s.logger.Error("failed to write audit record",
			zap.String("correlation_id", p.CorrelationID),
			zap.String("kind", kind.String()),
			zap.String("channel", channel),
			zap.Error(err),
		)
	}

	s.publishOutcome(kind, channel, recipient, p.CorrelationID, out, now)
}

func (s *Service) publishOutcome(kind Kind, channel, recipient, correlationID string, out Outcome, at time.Time) {
	if s.events == nil {
		return
	}
	var (
		key     string
		payload any
	)
	if out.Success {
		key = contracts.RoutingKeyDeliverySent
		payload = contracts.DeliverySentPayload{
			EventID:       uuid.NewString(),
			CorrelationID: correlationID,
			Kind:          kind.String(),
			Channel:       channel,
			Recipient:     recipient,
			Attempts:      out.Attempts,
			SentAt:        at,
		}
	} else {
		key = contracts.RoutingKeyDeliveryFailed
		payload = contracts.DeliveryFailedPayload{
			EventID:       uuid.NewString(),
			CorrelationID: correlationID,
			Kind:          kind.String(),
			Channel:       channel,
			Recipient:     recipient,
			Attempts:      out.Attempts,
			Error:         out.Error,
			FailedAt:      at,
		}
	}
	if err := s.events.Publish(key, payload); err != nil {
		s.logger.Error("failed to publish delivery event",
			zap.String("routing_key", key),
			zap.String("correlation_id", correlationID),
			zap.Error(err),
		)
	}
}

// SendBatch dispatches payloads sequentially in priority-then-input order
// with inter-item pacing. One item fully completes, through both channels
// and audit writes, before the next begins, so gateway rate limits are
// respected and the aggregate counts are deterministic.
func (s *Service) SendBatch(ctx context.Context, kind Kind, payloads []Payload, override *ChannelOverride) (BatchResult, error) {
	if !kind.IsValid() {
		return BatchResult{}, fmt.Errorf("unknown notification kind: %q", kind)
	}

	type batchEntry struct {
		kind    Kind
		payload Payload
	}
	entries := make([]batchEntry, len(payloads))
	for i, p := range payloads {
		entries[i] = batchEntry{kind: kind, payload: p}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return lessByPriority(entries[i].kind, entries[j].kind)
	})

	var limiter *rate.Limiter
	if s.pace > 0 {
		limiter = rate.NewLimiter(rate.Every(s.pace), 1)
	}

	result := BatchResult{Total: len(payloads), Items: make([]BatchItem, 0, len(payloads))}
	for _, e := range entries {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		res, err := s.Dispatch(ctx, e.kind, e.payload, override)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, BatchItem{
			CorrelationID: e.payload.CorrelationID,
			EmailSuccess:  res.Email.Success,
			SMSSuccess:    res.SMS.Success,
		})
		if res.Delivered() {
			result.Succeeded++
			metrics.IncBatchItem(kind.String(), model.AuditStatusSent)
		} else {
			result.Failed++
			metrics.IncBatchItem(kind.String(), model.AuditStatusFailed)
		}
	}

	s.logger.Info("batch completed",
		zap.String("kind", kind.String()),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// History returns the audit trail for a correlation id, newest first.
// History lookup is a diagnostic feature, so a store error yields an empty
// result instead of propagating.
func (s *Service) History(ctx context.Context, correlationID string) []model.AuditRecord {
	recs, err := s.store.ListByCorrelationID(ctx, correlationID)
	if err != nil {
		s.logger.Error("failed to load notification history",
			zap.String("correlation_id", correlationID),
			zap.Error(err),
		)
		return nil
	}
	return recs
}
