package model

import "time"

// Audit statuses for a delivery attempt.
const (
	AuditStatusSent   = "sent"
	AuditStatusFailed = "failed"
)

// AuditRecord is one row of the append-only delivery audit trail: one record
// per (notification, channel) dispatch outcome. Retries are internal to a
// single record; rows are never mutated after insert.
type AuditRecord struct {
	ID            int64
	CorrelationID string
	Kind          string
	Channel       string // email | sms
	Status        string // sent | failed
	Recipient     string
	ErrorMessage  string
	SentAt        time.Time
}
