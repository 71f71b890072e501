package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"notifier/config"
	"notifier/internal/notify"
)

const defaultResendBaseURL = "https://api.resend.com"

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// ResendSender delivers email through the Resend REST API. Without an API
// key it runs in dev mode: renders, logs and reports success without
// transmitting.
type ResendSender struct {
	cfg    config.EmailConfig
	client *http.Client
	logger *zap.Logger
}

func NewResendSender(cfg config.EmailConfig, logger *zap.Logger) *ResendSender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultResendBaseURL
	}
	return &ResendSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

func (s *ResendSender) SendEmail(ctx context.Context, kind notify.Kind, p notify.Payload) error {
	render, ok := emailRenderers[kind]
	if !ok {
		// Kind has no email template; succeed without transmitting so the
		// dispatcher's two-outcome shape stays uniform.
		return nil
	}
	msg := render(p)

	if s.cfg.APIKey == "" {
		s.logger.Info("email transport not configured, message not transmitted",
			zap.String("to", p.RecipientEmail),
			zap.String("subject", msg.Subject),
		)
		return nil
	}

	body, err := json.Marshal(resendRequest{
		From:    s.cfg.From,
		To:      []string{p.RecipientEmail},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return &SendError{Channel: notify.ChannelEmail, Message: err.Error(), Permanent: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return &SendError{Channel: notify.ChannelEmail, Message: err.Error(), Permanent: true}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return &SendError{Channel: notify.ChannelEmail, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SendError{
			Channel:    notify.ChannelEmail,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(detail)),
			Permanent:  permanentStatus(resp.StatusCode),
		}
	}
	return nil
}
