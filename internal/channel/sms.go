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

type smsRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// GatewaySender delivers text messages through an HTTP SMS gateway. Without
// a configured URL it runs in dev mode like the email sender.
type GatewaySender struct {
	cfg    config.SMSConfig
	client *http.Client
	logger *zap.Logger
}

func NewGatewaySender(cfg config.SMSConfig, logger *zap.Logger) *GatewaySender {
	return &GatewaySender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

func (s *GatewaySender) SendSMS(ctx context.Context, kind notify.Kind, p notify.Payload) error {
	render, ok := smsRenderers[kind]
	if !ok {
		// No SMS template for this kind; no-op success.
		return nil
	}
	text := render(p)

	if s.cfg.URL == "" {
		s.logger.Info("sms transport not configured, message not transmitted",
			zap.String("to", p.RecipientPhone),
		)
		return nil
	}

	body, err := json.Marshal(smsRequest{From: s.cfg.From, To: p.RecipientPhone, Body: text})
	if err != nil {
		return &SendError{Channel: notify.ChannelSMS, Message: err.Error(), Permanent: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return &SendError{Channel: notify.ChannelSMS, Message: err.Error(), Permanent: true}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &SendError{Channel: notify.ChannelSMS, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SendError{
			Channel:    notify.ChannelSMS,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(detail)),
			Permanent:  permanentStatus(resp.StatusCode),
		}
	}
	return nil
}
