package notify

import (
	"context"
	"fmt"
)

// Thin wrappers for the common call sites (booking flow, payment webhooks,
// reminder jobs) so callers do not need to pick kinds by hand.

func (s *Service) SendBookingConfirmation(ctx context.Context, p Payload, override *ChannelOverride) (DispatchResult, error) {
	return s.Dispatch(ctx, KindBookingConfirmed, p, override)
}

func (s *Service) SendReminder(ctx context.Context, kind Kind, p Payload, override *ChannelOverride) (DispatchResult, error) {
	if kind != KindReminder24h && kind != KindReminder1h {
		return DispatchResult{}, fmt.Errorf("not a reminder kind: %q", kind)
	}
	return s.Dispatch(ctx, kind, p, override)
}

func (s *Service) SendCancellation(ctx context.Context, p Payload, override *ChannelOverride) (DispatchResult, error) {
	return s.Dispatch(ctx, KindCancelled, p, override)
}

func (s *Service) SendReschedule(ctx context.Context, p Payload, override *ChannelOverride) (DispatchResult, error) {
	return s.Dispatch(ctx, KindRescheduled, p, override)
}

func (s *Service) SendPaymentFailed(ctx context.Context, p Payload, override *ChannelOverride) (DispatchResult, error) {
	return s.Dispatch(ctx, KindPaymentFailed, p, override)
}
