package mq

import "time"

// Routing keys owned by the notification worker.
const (
	RoutingKeyDispatchRequested = "notify.dispatch"
	RoutingKeyDeliverySent      = "notify.sent"
	RoutingKeyDeliveryFailed    = "notify.failed"
)

// DispatchRequestedPayload asks the worker to deliver one notification.
// Produced by the booking/payment services.
type DispatchRequestedPayload struct {
	EventID            string `json:"event_id"`
	Kind               string `json:"kind"`
	CorrelationID      string `json:"correlation_id"`
	RecipientName      string `json:"recipient_name"`
	RecipientEmail     string `json:"recipient_email,omitempty"`
	RecipientPhone     string `json:"recipient_phone,omitempty"`
	CounterpartName    string `json:"counterpart_name"`
	CounterpartEmail   string `json:"counterpart_email,omitempty"`
	ServiceName        string `json:"service_name"`
	Date               string `json:"date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time,omitempty"`
	Message            string `json:"message,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	NewDate            string `json:"new_date,omitempty"`
	NewTime            string `json:"new_time,omitempty"`

	// Channel overrides; nil keeps the per-kind default.
	Email *bool `json:"email,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
}

// DeliverySentPayload is published after a channel delivery succeeds.
type DeliverySentPayload struct {
	EventID       string    `json:"event_id"`
	CorrelationID string    `json:"correlation_id"`
	Kind          string    `json:"kind"`
	Channel       string    `json:"channel"`
	Recipient     string    `json:"recipient"`
	Attempts      int       `json:"attempts"`
	SentAt        time.Time `json:"sent_at"`
}

// DeliveryFailedPayload is published after a channel delivery exhausts its
// attempts or fails permanently.
type DeliveryFailedPayload struct {
	EventID       string    `json:"event_id"`
	CorrelationID string    `json:"correlation_id"`
	Kind          string    `json:"kind"`
	Channel       string    `json:"channel"`
	Recipient     string    `json:"recipient"`
	Attempts      int       `json:"attempts"`
	Error         string    `json:"error"`
	FailedAt      time.Time `json:"failed_at"`
}
