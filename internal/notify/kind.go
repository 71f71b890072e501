package notify

import "fmt"

// Kind identifies the business event a notification communicates.
type Kind string

const (
	KindBookingConfirmed Kind = "booking-confirmed"
	KindReminder24h      Kind = "reminder-24h"
	KindReminder1h       Kind = "reminder-1h"
	KindCancelled        Kind = "cancelled"
	KindRescheduled      Kind = "rescheduled"
	KindWaitlistSlot     Kind = "waitlist-slot-available"
	KindReviewRequest    Kind = "review-request"
	KindPaymentReceived  Kind = "payment-received"
	KindPaymentFailed    Kind = "payment-failed"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	_, ok := defaultChannels[k]
	return ok
}

// ParseKind validates a kind received from an external caller (e.g. an MQ
// event). An unknown kind is a programmer error on the producing side.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown notification kind: %q", s)
	}
	return k, nil
}

// Per-kind channel defaults. The 1-hour reminder is SMS-only because it is
// time-critical; review requests and payment receipts are email-only to
// avoid notification fatigue.
var defaultChannels = map[Kind]ChannelSet{
	KindBookingConfirmed: {Email: true, SMS: true},
	KindReminder24h:      {Email: true, SMS: true},
	KindReminder1h:       {Email: false, SMS: true},
	KindCancelled:        {Email: true, SMS: true},
	KindRescheduled:      {Email: true, SMS: true},
	KindWaitlistSlot:     {Email: true, SMS: true},
	KindReviewRequest:    {Email: true, SMS: false},
	KindPaymentReceived:  {Email: true, SMS: false},
	KindPaymentFailed:    {Email: true, SMS: true},
}

// Batch priority per kind, lower is more urgent.
var kindPriority = map[Kind]int{
	KindBookingConfirmed: 1,
	KindCancelled:        1,
	KindRescheduled:      1,
	KindReminder1h:       2,
	KindPaymentReceived:  2,
	KindPaymentFailed:    2,
	KindReminder24h:      3,
	KindWaitlistSlot:     4,
	KindReviewRequest:    5,
}

// DefaultChannels returns the channel defaults for the kind.
func (k Kind) DefaultChannels() ChannelSet {
	return defaultChannels[k]
}

// Priority returns the batch ordering priority of the kind.
func (k Kind) Priority() int {
	return kindPriority[k]
}

// lessByPriority orders kinds for batch processing. A single SendBatch call
// carries one kind, so today this comparator is a stable no-op, but it keeps
// mixed-kind batching possible without touching the scheduler.
func lessByPriority(a, b Kind) bool {
	return a.Priority() < b.Priority()
}
