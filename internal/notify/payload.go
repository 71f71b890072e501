package notify

// Delivery channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// ChannelSet marks which channels are active for a dispatch.
type ChannelSet struct {
	Email bool
	SMS   bool
}

// ChannelOverride lets a caller force channels on or off. Nil fields fall
// back to the per-kind default.
type ChannelOverride struct {
	Email *bool
	SMS   *bool
}

// Apply overlays the override on top of the set.
func (c ChannelSet) Apply(o *ChannelOverride) ChannelSet {
	if o == nil {
		return c
	}
	if o.Email != nil {
		c.Email = *o.Email
	}
	if o.SMS != nil {
		c.SMS = *o.SMS
	}
	return c
}

// Payload carries everything needed to render and address one recipient's
// notification. It is treated as an immutable value per dispatch.
type Payload struct {
	CorrelationID    string // booking id
	RecipientName    string
	RecipientEmail   string // optional
	RecipientPhone   string // optional
	CounterpartName  string // artisan name
	CounterpartEmail string // optional
	ServiceName      string
	Date             string
	StartTime        string
	EndTime          string

	// Kind-specific optional fields.
	Message            string
	CancellationReason string
	NewDate            string
	NewTime            string
}

// Outcome is the per-channel result of one dispatch.
type Outcome struct {
	Success  bool
	Error    string
	Attempts int
}

// skipped marks a channel that was never attempted (deselected or missing
// contact information).
func skipped() Outcome {
	return Outcome{Success: false, Error: "not sent"}
}

// DispatchResult holds both channel outcomes for one dispatch call.
type DispatchResult struct {
	Email Outcome
	SMS   Outcome
}

// Delivered reports whether at least one channel got through.
func (r DispatchResult) Delivered() bool {
	return r.Email.Success || r.SMS.Success
}

// BatchItem is the per-payload summary inside a BatchResult.
type BatchItem struct {
	CorrelationID string
	EmailSuccess  bool
	SMSSuccess    bool
}

// BatchResult aggregates one SendBatch run. An item counts as succeeded when
// either channel succeeded.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Items     []BatchItem
}
