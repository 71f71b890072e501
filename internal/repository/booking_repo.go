package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"notifier/internal/notify"
	"notifier/pkg/metrics"
)

const reminderBatchLimit = 500

// BookingRepository reads confirmed bookings that are due a reminder.
type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// ListDueReminders returns payloads for confirmed bookings scheduled inside
// [now+lead, now+lead+window) that have not yet received a sent reminder of
// the given kind. The notification_logs anti-join keeps repeated cron runs
// from re-notifying the same booking.
func (r *BookingRepository) ListDueReminders(ctx context.Context, kind notify.Kind, lead, window time.Duration) ([]notify.Payload, error) {
	now := time.Now()
	from := now.Add(lead)
	to := from.Add(window)

	start := time.Now()
	query := `
        SELECT b.id::text,
               COALESCE(b.service_name, ''),
               to_char(b.scheduled_date, 'DD/MM/YYYY'),
               to_char(b.scheduled_date, 'HH24:MI'),
               COALESCE(c.full_name, ''),
               COALESCE(c.email, ''),
               COALESCE(c.phone_e164, ''),
               COALESCE(a.full_name, '')
        FROM bookings b
        JOIN profiles c ON c.id = b.client_id
        LEFT JOIN profiles a ON a.id = b.provider_id
        WHERE b.status = 'confirmed'
          AND b.scheduled_date >= $1
          AND b.scheduled_date < $2
          AND NOT EXISTS (
              SELECT 1
              FROM notification_logs l
              WHERE l.correlation_id = b.id::text
                AND l.kind = $3
                AND l.status = 'sent'
          )
        ORDER BY b.scheduled_date
        LIMIT $4
    `
	rows, err := r.db.Query(ctx, query, from, to, kind.String(), reminderBatchLimit)
	metrics.RecordDBQueryDuration("select", "bookings", time.Since(start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payloads []notify.Payload
	for rows.Next() {
		var p notify.Payload
		if err := rows.Scan(
			&p.CorrelationID, &p.ServiceName, &p.Date, &p.StartTime,
			&p.RecipientName, &p.RecipientEmail, &p.RecipientPhone, &p.CounterpartName,
		); err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, rows.Err()
}
