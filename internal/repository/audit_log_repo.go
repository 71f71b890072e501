package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"notifier/internal/model"
	"notifier/pkg/metrics"
)

// AuditLogRepository persists delivery audit records in the
// notification_logs table.
type AuditLogRepository struct {
	db *pgxpool.Pool
}

func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Insert(ctx context.Context, rec *model.AuditRecord) error {
	start := time.Now()
	query := `
        INSERT INTO notification_logs (correlation_id, kind, channel, status, recipient, error_message, sent_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
    `
	_, err := r.db.Exec(ctx, query,
		rec.CorrelationID, rec.Kind, rec.Channel, rec.Status, rec.Recipient, rec.ErrorMessage, rec.SentAt,
	)
	metrics.RecordDBQueryDuration("insert", "notification_logs", time.Since(start))
	return err
}

// ListByCorrelationID returns all audit records for a correlation id,
// newest first.
func (r *AuditLogRepository) ListByCorrelationID(ctx context.Context, correlationID string) ([]model.AuditRecord, error) {
	start := time.Now()
	query := `
        SELECT id, correlation_id, kind, channel, status, recipient, COALESCE(error_message, ''), sent_at
        FROM notification_logs
        WHERE correlation_id = $1
        ORDER BY sent_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, correlationID)
	metrics.RecordDBQueryDuration("select", "notification_logs", time.Since(start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.AuditRecord
	for rows.Next() {
		var rec model.AuditRecord
		if err := rows.Scan(
			&rec.ID, &rec.CorrelationID, &rec.Kind, &rec.Channel,
			&rec.Status, &rec.Recipient, &rec.ErrorMessage, &rec.SentAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
