package channel

import (
	"fmt"

	"notifier/internal/notify"
)

const (
	siteName = "ServicesArtisans"
	siteURL  = "https://servicesartisans.fr"
)

// EmailMessage is one rendered email.
type EmailMessage struct {
	Subject string
	HTML    string
	Text    string
}

type emailRenderer func(notify.Payload) EmailMessage

// Per-kind email renderers. Kinds absent from this table have no email
// template and resolve to a no-op success in the sender.
var emailRenderers = map[notify.Kind]emailRenderer{
	notify.KindBookingConfirmed: renderBookingConfirmedEmail,
	notify.KindReminder24h:      renderReminderEmail,
	notify.KindReminder1h:       renderReminderEmail,
	notify.KindCancelled:        renderCancelledEmail,
	notify.KindPaymentFailed:    renderPaymentFailedEmail,
	notify.KindReviewRequest:    renderReviewRequestEmail,
}

// emailLayout wraps body HTML in the shared responsive frame with a colored
// header banner.
func emailLayout(title, accent, inner string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
  </head>
  <body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f5f5f5;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <div style="background: %s; padding: 30px; border-radius: 12px 12px 0 0; text-align: center;">
        <h1 style="color: white; margin: 0; font-size: 24px;">%s</h1>
      </div>
      <div style="background: white; padding: 30px; border-radius: 0 0 12px 12px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
        %s
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 25px 0;">
        <p style="color: #999; font-size: 12px; text-align: center;">%s</p>
      </div>
    </div>
  </body>
</html>`, accent, title, inner, siteName)
}

func detailRow(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(`<tr>
          <td style="padding: 8px 0; color: #666;">%s:</td>
          <td style="padding: 8px 0; color: #333; font-weight: 500;">%s</td>
        </tr>`, label, value)
}

func detailTable(accent string, rows ...string) string {
	body := ""
	for _, r := range rows {
		body += r
	}
	return fmt.Sprintf(`<div style="background: #f8fafc; border-radius: 8px; padding: 20px; margin: 25px 0; border-left: 4px solid %s;">
        <table style="width: 100%%; font-size: 14px;">%s</table>
      </div>`, accent, body)
}

func timeslot(p notify.Payload) string {
	if p.EndTime != "" {
		return p.StartTime + " - " + p.EndTime
	}
	return p.StartTime
}

func renderBookingConfirmedEmail(p notify.Payload) EmailMessage {
	const accent = "#2563eb"
	inner := fmt.Sprintf(`<p style="color: #333; font-size: 16px;">Bonjour <strong>%s</strong>,</p>
        <p style="color: #666; font-size: 15px; line-height: 1.6;">Votre rendez-vous avec <strong>%s</strong> a bien été confirmé.</p>
        %s
        <div style="text-align: center; margin: 30px 0;">
          <a href="%s/booking/%s" style="display: inline-block; background: %s; color: white; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 500;">Gérer ma réservation</a>
        </div>`,
		p.RecipientName, p.CounterpartName,
		detailTable(accent,
			detailRow("Service", p.ServiceName),
			detailRow("Date", p.Date),
			detailRow("Horaire", timeslot(p)),
			detailRow("Artisan", p.CounterpartName),
		),
		siteURL, p.CorrelationID, accent)

	return EmailMessage{
		Subject: fmt.Sprintf("Confirmation de votre rendez-vous - %s", p.ServiceName),
		HTML:    emailLayout("Rendez-vous confirmé", "linear-gradient(135deg, #2563eb 0%, #1d4ed8 100%)", inner),
		Text: fmt.Sprintf(`Bonjour %s,

Votre rendez-vous avec %s a bien été confirmé.

Service: %s
Date: %s
Horaire: %s

Gérer votre réservation: %s/booking/%s

%s`, p.RecipientName, p.CounterpartName, p.ServiceName, p.Date, timeslot(p), siteURL, p.CorrelationID, siteName),
	}
}

func renderReminderEmail(p notify.Payload) EmailMessage {
	const accent = "#f59e0b"
	inner := fmt.Sprintf(`<p style="color: #333; font-size: 16px;">Bonjour <strong>%s</strong>,</p>
        <p style="color: #666; font-size: 15px; line-height: 1.6;">Nous vous rappelons votre rendez-vous prévu avec <strong>%s</strong>.</p>
        %s
        <p style="color: #666; font-size: 14px; line-height: 1.6;">Si vous ne pouvez plus honorer ce rendez-vous, merci de l'annuler le plus tôt possible.</p>`,
		p.RecipientName, p.CounterpartName,
		detailTable(accent,
			detailRow("Service", p.ServiceName),
			detailRow("Date", p.Date),
			detailRow("Horaire", timeslot(p)),
		))

	return EmailMessage{
		Subject: fmt.Sprintf("Rappel: Votre RDV avec %s", p.CounterpartName),
		HTML:    emailLayout("Rappel de rendez-vous", "linear-gradient(135deg, #f59e0b 0%, #d97706 100%)", inner),
		Text: fmt.Sprintf(`Bonjour %s,

Rappel: Vous avez un rendez-vous avec %s.

Service: %s
Date: %s
Horaire: %s

Si vous ne pouvez plus honorer ce rendez-vous, merci de l'annuler le plus tôt possible.

%s`, p.RecipientName, p.CounterpartName, p.ServiceName, p.Date, timeslot(p), siteName),
	}
}

func renderCancelledEmail(p notify.Payload) EmailMessage {
	const accent = "#dc2626"
	rows := []string{
		detailRow("Service", p.ServiceName),
		detailRow("Date prévue", p.Date),
		detailRow("Horaire", timeslot(p)),
		detailRow("Raison", p.CancellationReason),
	}
	inner := fmt.Sprintf(`<p style="color: #333; font-size: 16px;">Bonjour <strong>%s</strong>,</p>
        <p style="color: #666; font-size: 15px; line-height: 1.6;">Votre rendez-vous avec <strong>%s</strong> a été annulé.</p>
        %s`,
		p.RecipientName, p.CounterpartName, detailTable(accent, rows...))

	text := fmt.Sprintf(`Bonjour %s,

Votre rendez-vous avec %s a été annulé.

Service: %s
Date prévue: %s
Horaire: %s
`, p.RecipientName, p.CounterpartName, p.ServiceName, p.Date, timeslot(p))
	if p.CancellationReason != "" {
		text += fmt.Sprintf("Raison: %s\n", p.CancellationReason)
	}
	text += "\n" + siteName

	return EmailMessage{
		Subject: fmt.Sprintf("Annulation de rendez-vous - %s", p.Date),
		HTML:    emailLayout("Rendez-vous annulé", "linear-gradient(135deg, #dc2626 0%, #b91c1c 100%)", inner),
		Text:    text,
	}
}

func renderPaymentFailedEmail(p notify.Payload) EmailMessage {
	const accent = "#dc2626"
	inner := fmt.Sprintf(`<p style="color: #333; font-size: 16px;">Bonjour <strong>%s</strong>,</p>
        <p style="color: #666; font-size: 15px; line-height: 1.6;">Nous n'avons pas pu traiter votre paiement.</p>
        %s
        <p style="color: #666; font-size: 14px; line-height: 1.6;">Merci de mettre à jour votre moyen de paiement pour conserver votre réservation.</p>`,
		p.RecipientName,
		detailTable(accent,
			detailRow("Service", p.ServiceName),
			detailRow("Date", p.Date),
			detailRow("Montant", p.Message),
		))

	return EmailMessage{
		Subject: fmt.Sprintf("Action requise: Échec de paiement - %s", siteName),
		HTML:    emailLayout("Échec de paiement", "linear-gradient(135deg, #dc2626 0%, #b91c1c 100%)", inner),
		Text: fmt.Sprintf(`Bonjour %s,

Nous n'avons pas pu traiter votre paiement pour %s (%s).

Merci de mettre à jour votre moyen de paiement pour conserver votre réservation.

%s`, p.RecipientName, p.ServiceName, p.Date, siteName),
	}
}

func renderReviewRequestEmail(p notify.Payload) EmailMessage {
	const accent = "#8b5cf6"
	reviewURL := fmt.Sprintf("%s/donner-avis/%s", siteURL, p.CorrelationID)
	inner := fmt.Sprintf(`<p style="color: #333; font-size: 16px;">Bonjour <strong>%s</strong>,</p>
        <p style="color: #666; font-size: 15px; line-height: 1.6;">Comment s'est passé votre rendez-vous avec <strong>%s</strong> pour <strong>%s</strong> ?</p>
        <p style="color: #666; font-size: 15px; line-height: 1.6;">Votre avis aide d'autres personnes à trouver les meilleurs artisans.</p>
        <div style="text-align: center; margin: 30px 0;">
          <a href="%s" style="display: inline-block; background: %s; color: white; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 500;">Laisser un avis</a>
        </div>
        <p style="color: #999; font-size: 13px; text-align: center;">Cela ne prend que 30 secondes</p>`,
		p.RecipientName, p.CounterpartName, p.ServiceName, reviewURL, accent)

	return EmailMessage{
		Subject: fmt.Sprintf("Comment s'est passé votre RDV avec %s?", p.CounterpartName),
		HTML:    emailLayout("Votre avis compte !", "linear-gradient(135deg, #8b5cf6 0%, #7c3aed 100%)", inner),
		Text: fmt.Sprintf(`Bonjour %s,

Comment s'est passé votre rendez-vous avec %s pour %s ?

Votre avis aide d'autres personnes à trouver les meilleurs artisans.

Laisser un avis: %s

Cela ne prend que 30 secondes.

%s`, p.RecipientName, p.CounterpartName, p.ServiceName, reviewURL, siteName),
	}
}
