package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"notifier/internal/model"
)

type fakeEmail struct {
	calls int
	fn    func(p Payload) error
}

func (f *fakeEmail) SendEmail(_ context.Context, _ Kind, p Payload) error {
	f.calls++
	if f.fn == nil {
		return nil
	}
	return f.fn(p)
}

type fakeSMS struct {
	calls int
	fn    func(p Payload) error
}

func (f *fakeSMS) SendSMS(_ context.Context, _ Kind, p Payload) error {
	f.calls++
	if f.fn == nil {
		return nil
	}
	return f.fn(p)
}

type fakeStore struct {
	inserted  []model.AuditRecord
	insertErr error
	list      []model.AuditRecord
	listErr   error
}

func (f *fakeStore) Insert(_ context.Context, rec *model.AuditRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *rec)
	return nil
}

func (f *fakeStore) ListByCorrelationID(_ context.Context, _ string) ([]model.AuditRecord, error) {
	return f.list, f.listErr
}

type fakeEvents struct {
	keys []string
}

func (f *fakeEvents) Publish(routingKey string, _ any) error {
	f.keys = append(f.keys, routingKey)
	return nil
}

func newTestService(email *fakeEmail, sms *fakeSMS, store *fakeStore, events EventPublisher) *Service {
	s := New(Config{PaceInterval: -1}, email, sms, store, events, zap.NewNop())
	s.retry.sleep = func(time.Duration) {}
	return s
}

func fullPayload() Payload {
	return Payload{
		CorrelationID:   "bk-1001",
		RecipientName:   "Marie Dupont",
		RecipientEmail:  "marie@example.com",
		RecipientPhone:  "+33600000000",
		CounterpartName: "Jean Plombier",
		ServiceName:     "Plomberie",
		Date:            "12/09/2026",
		StartTime:       "10:00",
		EndTime:         "11:00",
	}
}

func TestDispatchBothChannelsSucceed(t *testing.T) {
	email, sms := &fakeEmail{}, &fakeSMS{}
	store := &fakeStore{}
	events := &fakeEvents{}
	svc := newTestService(email, sms, store, events)

	res, err := svc.Dispatch(context.Background(), KindBookingConfirmed, fullPayload(), nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !res.Email.Success || res.Email.Attempts != 1 {
		t.Fatalf("email outcome: %+v", res.Email)
	}
	if !res.SMS.Success || res.SMS.Attempts != 1 {
		t.Fatalf("sms outcome: %+v", res.SMS)
	}
	if email.calls != 1 || sms.calls != 1 {
		t.Fatalf("sender calls: email=%d sms=%d", email.calls, sms.calls)
	}
	if len(store.inserted) != 2 {
		t.Fatalf("audit records: %d, want 2", len(store.inserted))
	}
	for _, rec := range store.inserted {
		if rec.Status != model.AuditStatusSent {
			t.Fatalf("audit status %q, want sent", rec.Status)
		}
		if rec.CorrelationID != "bk-1001" {
			t.Fatalf("audit correlation id %q", rec.CorrelationID)
		}
		if rec.ErrorMessage != "" {
			t.Fatalf("sent record carries error %q", rec.ErrorMessage)
		}
	}
	if len(events.keys) != 2 {
		t.Fatalf("published %d events, want 2", len(events.keys))
	}
}

func TestDispatchSMSFailsAllAttempts(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{fn: func(Payload) error { return errors.New("gateway down") }}
	store := &fakeStore{}
	svc := newTestService(email, sms, store, nil)

	res, err := svc.Dispatch(context.Background(), KindBookingConfirmed, fullPayload(), nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !res.Email.Success {
		t.Fatalf("email outcome: %+v", res.Email)
	}
	if res.SMS.Success || res.SMS.Attempts != 3 {
		t.Fatalf("sms outcome: %+v", res.SMS)
	}
	if res.SMS.Error != "gateway down" {
		t.Fatalf("sms error %q", res.SMS.Error)
	}
	if sms.calls != 3 {
		t.Fatalf("sms calls = %d, want 3", sms.calls)
	}

	if len(store.inserted) != 2 {
		t.Fatalf("audit records: %d, want 2", len(store.inserted))
	}
	var smsRec *model.AuditRecord
	for i := range store.inserted {
		if store.inserted[i].Channel == ChannelSMS {
			smsRec = &store.inserted[i]
		}
	}
	if smsRec == nil {
		t.Fatal("no sms audit record")
	}
	if smsRec.Status != model.AuditStatusFailed || smsRec.ErrorMessage != "gateway down" {
		t.Fatalf("sms audit: %+v", smsRec)
	}
	if smsRec.Recipient != "+33600000000" {
		t.Fatalf("sms audit recipient %q", smsRec.Recipient)
	}
}

func TestDispatchSkipsChannelWithoutContact(t *testing.T) {
	email, sms := &fakeEmail{}, &fakeSMS{}
	store := &fakeStore{}
	svc := newTestService(email, sms, store, nil)

	p := fullPayload()
	p.RecipientPhone = ""
	res, err := svc.Dispatch(context.Background(), KindBookingConfirmed, p, nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sms.calls != 0 {
		t.Fatal("sms sender must not be invoked without a phone number")
	}
	if res.SMS.Success || res.SMS.Error != "not sent" || res.SMS.Attempts != 0 {
		t.Fatalf("sms outcome: %+v", res.SMS)
	}
	// skipped channel is not audited
	if len(store.inserted) != 1 || store.inserted[0].Channel != ChannelEmail {
		t.Fatalf("audit records: %+v", store.inserted)
	}
}

func TestDispatchSelectionSkipsSMSForReviewRequest(t *testing.T) {
	email, sms := &fakeEmail{}, &fakeSMS{}
	store := &fakeStore{}
	svc := newTestService(email, sms, store, nil)

	// phone present, but review-request defaults to email only
	res, err := svc.Dispatch(context.Background(), KindReviewRequest, fullPayload(), nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sms.calls != 0 {
		t.Fatal("sms sender invoked despite deselected channel")
	}
	if res.SMS.Error != "not sent" {
		t.Fatalf("sms outcome: %+v", res.SMS)
	}
	if !res.Email.Success || email.calls != 1 {
		t.Fatalf("email outcome: %+v calls=%d", res.Email, email.calls)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("audit records: %d, want 1", len(store.inserted))
	}
}

func TestDispatchOverrideWins(t *testing.T) {
	email, sms := &fakeEmail{}, &fakeSMS{}
	svc := newTestService(email, sms, &fakeStore{}, nil)

	off, on := false, true
	_, err := svc.Dispatch(context.Background(), KindBookingConfirmed, fullPayload(),
		&ChannelOverride{Email: &off})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if email.calls != 0 || sms.calls != 1 {
		t.Fatalf("calls: email=%d sms=%d", email.calls, sms.calls)
	}

	// force SMS on for an email-only kind
	_, err = svc.Dispatch(context.Background(), KindReviewRequest, fullPayload(),
		&ChannelOverride{SMS: &on})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sms.calls != 2 {
		t.Fatalf("sms calls = %d, want 2", sms.calls)
	}
}

func TestDispatchInvalidKind(t *testing.T) {
	svc := newTestService(&fakeEmail{}, &fakeSMS{}, &fakeStore{}, nil)
	if _, err := svc.Dispatch(context.Background(), Kind("bogus"), fullPayload(), nil); err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestDispatchAuditFailureDoesNotFailDelivery(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	svc := newTestService(&fakeEmail{}, &fakeSMS{}, store, nil)

	res, err := svc.Dispatch(context.Background(), KindBookingConfirmed, fullPayload(), nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !res.Email.Success || !res.SMS.Success {
		t.Fatalf("audit failure leaked into outcomes: %+v", res)
	}
}

func TestSendBatchAggregates(t *testing.T) {
	email := &fakeEmail{fn: func(p Payload) error {
		if p.CorrelationID == "bk-2" {
			return errors.New("bounced")
		}
		return nil
	}}
	sms := &fakeSMS{fn: func(p Payload) error {
		if p.CorrelationID == "bk-2" {
			return errors.New("rejected")
		}
		return nil
	}}
	svc := newTestService(email, sms, &fakeStore{}, nil)

	payloads := make([]Payload, 3)
	for i, id := range []string{"bk-1", "bk-2", "bk-3"} {
		payloads[i] = fullPayload()
		payloads[i].CorrelationID = id
	}

	res, err := svc.SendBatch(context.Background(), KindReminder24h, payloads, nil)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if res.Total != 3 || res.Succeeded != 2 || res.Failed != 1 {
		t.Fatalf("aggregate: %+v", res)
	}
	if res.Succeeded+res.Failed != res.Total {
		t.Fatalf("succeeded+failed != total: %+v", res)
	}
	if len(res.Items) != 3 {
		t.Fatalf("items: %d", len(res.Items))
	}
	// input order preserved for a single-kind batch
	for i, id := range []string{"bk-1", "bk-2", "bk-3"} {
		if res.Items[i].CorrelationID != id {
			t.Fatalf("item %d is %q, want %q", i, res.Items[i].CorrelationID, id)
		}
	}
	if res.Items[1].EmailSuccess || res.Items[1].SMSSuccess {
		t.Fatalf("bk-2 should have failed both channels: %+v", res.Items[1])
	}
}

func TestSendBatchItemSucceedsWhenOneChannelWorks(t *testing.T) {
	email := &fakeEmail{fn: func(Payload) error { return errors.New("bounced") }}
	svc := newTestService(email, &fakeSMS{}, &fakeStore{}, nil)

	res, err := svc.SendBatch(context.Background(), KindReminder24h, []Payload{fullPayload()}, nil)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if res.Succeeded != 1 || res.Failed != 0 {
		t.Fatalf("aggregate: %+v", res)
	}
	if res.Items[0].EmailSuccess || !res.Items[0].SMSSuccess {
		t.Fatalf("item: %+v", res.Items[0])
	}
}

func TestSendBatchInvalidKind(t *testing.T) {
	svc := newTestService(&fakeEmail{}, &fakeSMS{}, &fakeStore{}, nil)
	if _, err := svc.SendBatch(context.Background(), Kind("nope"), nil, nil); err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestHistory(t *testing.T) {
	store := &fakeStore{list: []model.AuditRecord{
		{CorrelationID: "bk-1001", Channel: ChannelSMS, Status: model.AuditStatusFailed},
		{CorrelationID: "bk-1001", Channel: ChannelEmail, Status: model.AuditStatusSent},
	}}
	svc := newTestService(&fakeEmail{}, &fakeSMS{}, store, nil)

	recs := svc.History(context.Background(), "bk-1001")
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}

	store.listErr = errors.New("db down")
	if recs := svc.History(context.Background(), "bk-1001"); len(recs) != 0 {
		t.Fatalf("store error should yield empty history, got %d", len(recs))
	}
}
