package notify

import "testing"

func TestDefaultChannels(t *testing.T) {
	cases := []struct {
		kind  Kind
		email bool
		sms   bool
	}{
		{KindBookingConfirmed, true, true},
		{KindReminder24h, true, true},
		{KindReminder1h, false, true},
		{KindCancelled, true, true},
		{KindRescheduled, true, true},
		{KindWaitlistSlot, true, true},
		{KindReviewRequest, true, false},
		{KindPaymentReceived, true, false},
		{KindPaymentFailed, true, true},
	}
	for _, c := range cases {
		got := c.kind.DefaultChannels()
		if got.Email != c.email || got.SMS != c.sms {
			t.Errorf("%s: got {email:%v sms:%v}, want {email:%v sms:%v}",
				c.kind, got.Email, got.SMS, c.email, c.sms)
		}
	}
}

func TestChannelOverride(t *testing.T) {
	on := true
	off := false

	base := KindReminder1h.DefaultChannels() // {email:false, sms:true}

	if got := base.Apply(nil); got != base {
		t.Fatalf("nil override changed the set: %+v", got)
	}
	if got := base.Apply(&ChannelOverride{Email: &on}); !got.Email || !got.SMS {
		t.Fatalf("email override lost a field: %+v", got)
	}
	if got := base.Apply(&ChannelOverride{SMS: &off}); got.Email || got.SMS {
		t.Fatalf("sms override left sms on: %+v", got)
	}
	// unspecified fields keep the default
	if got := base.Apply(&ChannelOverride{Email: &on}); got.SMS != base.SMS {
		t.Fatalf("partial override touched sms: %+v", got)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("booking-confirmed")
	if err != nil {
		t.Fatalf("ParseKind: %v", err)
	}
	if k != KindBookingConfirmed {
		t.Fatalf("got %q", k)
	}
	if _, err := ParseKind("booking_confirmation"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if _, err := ParseKind(""); err == nil {
		t.Fatal("expected error for empty kind")
	}
}

func TestPriorityOrdering(t *testing.T) {
	if !lessByPriority(KindBookingConfirmed, KindReminder24h) {
		t.Fatal("booking-confirmed should outrank reminder-24h")
	}
	if !lessByPriority(KindPaymentFailed, KindReviewRequest) {
		t.Fatal("payment-failed should outrank review-request")
	}
	if lessByPriority(KindReviewRequest, KindWaitlistSlot) {
		t.Fatal("review-request should not outrank waitlist")
	}
	// equal priorities are a stable no-op
	if lessByPriority(KindCancelled, KindRescheduled) || lessByPriority(KindRescheduled, KindCancelled) {
		t.Fatal("equal priorities must not order each other")
	}
}
