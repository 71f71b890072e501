package channel

import (
	"fmt"

	"notifier/internal/notify"
)

type smsRenderer func(notify.Payload) string

// Per-kind SMS renderers. Kinds absent from this table (review requests and
// payment receipts among them) have no SMS template and resolve to a no-op
// success in the sender.
var smsRenderers = map[notify.Kind]smsRenderer{
	notify.KindBookingConfirmed: renderBookingConfirmedSMS,
	notify.KindReminder24h:      renderReminder24hSMS,
	notify.KindReminder1h:       renderReminder1hSMS,
	notify.KindCancelled:        renderCancelledSMS,
	notify.KindRescheduled:      renderRescheduledSMS,
	notify.KindWaitlistSlot:     renderWaitlistSMS,
	notify.KindPaymentFailed:    renderPaymentFailedSMS,
}

func renderBookingConfirmedSMS(p notify.Payload) string {
	return fmt.Sprintf("%s: RDV confirmé avec %s le %s à %s (%s). Réf %s",
		siteName, p.CounterpartName, p.Date, p.StartTime, p.ServiceName, shortRef(p.CorrelationID))
}

func renderReminder24hSMS(p notify.Payload) string {
	return fmt.Sprintf("%s: Rappel, RDV demain le %s à %s avec %s (%s).",
		siteName, p.Date, p.StartTime, p.CounterpartName, p.ServiceName)
}

func renderReminder1hSMS(p notify.Payload) string {
	return fmt.Sprintf("%s: Votre RDV avec %s commence à %s. À tout à l'heure !",
		siteName, p.CounterpartName, p.StartTime)
}

func renderCancelledSMS(p notify.Payload) string {
	return fmt.Sprintf("%s: Votre RDV du %s à %s avec %s a été annulé.",
		siteName, p.Date, p.StartTime, p.CounterpartName)
}

// Rescheduled messages carry the new slot; the original date/time fields
// stay as a fallback when the caller did not fill NewDate/NewTime.
func renderRescheduledSMS(p notify.Payload) string {
	date, tm := p.NewDate, p.NewTime
	if date == "" {
		date = p.Date
	}
	if tm == "" {
		tm = p.StartTime
	}
	return fmt.Sprintf("%s: Votre RDV avec %s a été déplacé au %s à %s.",
		siteName, p.CounterpartName, date, tm)
}

func renderWaitlistSMS(p notify.Payload) string {
	return fmt.Sprintf("%s: Un créneau s'est libéré chez %s le %s à %s. Réservez vite !",
		siteName, p.CounterpartName, p.Date, p.StartTime)
}

func renderPaymentFailedSMS(p notify.Payload) string {
	return fmt.Sprintf("%s: Échec de paiement pour votre RDV du %s (%s). Merci de mettre à jour votre moyen de paiement.",
		siteName, p.Date, p.ServiceName)
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
