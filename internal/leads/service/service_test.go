package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"portfolio_backend/internal/ai"
	"portfolio_backend/internal/leads/domain"
	"portfolio_backend/internal/leads/repository"
	"portfolio_backend/internal/scheduler"
	"portfolio_backend/platform/logger"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, _ ai.Request, _ *genai.Schema, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

type fakeStore struct {
	qualifications []domain.Qualification
	requests       []repository.ServiceRequestRecord
}

func (f *fakeStore) SaveQualification(_ context.Context, _, _ string, q domain.Qualification, _ any) (uuid.UUID, error) {
	f.qualifications = append(f.qualifications, q)
	return uuid.New(), nil
}

func (f *fakeStore) SaveServiceRequest(_ context.Context, rec repository.ServiceRequestRecord) (uuid.UUID, error) {
	f.requests = append(f.requests, rec)
	return uuid.New(), nil
}

type fakeForwarder struct {
	kinds []string
}

func (f *fakeForwarder) Forward(_ context.Context, kind string, _ any) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

type fakeMailer struct {
	alerts int
}

func (f *fakeMailer) SendHotLeadAlert(_ context.Context, _ domain.Qualification, _ string) error {
	f.alerts++
	return nil
}

func testPayload() scheduler.QualifyLeadPayload {
	return scheduler.QualifyLeadPayload{
		SessionID: uuid.NewString(),
		Language:  "en",
		Transcript: []scheduler.TranscriptTurn{
			{Role: "user", Text: "I need a telegram bot for my store"},
			{Role: "model", Text: "Happy to help, tell me more"},
		},
		ClosedAt: time.Now(),
	}
}

func newTestService(gen *fakeGenerator) (*Service, *fakeStore, *fakeForwarder, *fakeMailer) {
	store := &fakeStore{}
	fwd := &fakeForwarder{}
	mailer := &fakeMailer{}
	svc := New(gen, store, fwd, mailer, nil, "SA", logger.New("development"))
	return svc, store, fwd, mailer
}

func TestQualifyHotLeadTriggersSideEffects(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"purchaseIntentScore": 92,
		"isHotLead": false,
		"reasoning": "concrete project with budget",
		"contact": {"name": "Sara", "email": "sara@example.com", "phone": "+966501234567"}
	}`}
	svc, store, fwd, mailer := newTestService(gen)

	q, err := svc.QualifyTranscript(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("QualifyTranscript: %v", err)
	}
	// The model claimed isHotLead=false; the score alone decides.
	if !q.IsHotLead {
		t.Fatalf("score 92 must be a hot lead")
	}
	if len(store.qualifications) != 1 {
		t.Fatalf("expected 1 persisted qualification, got %d", len(store.qualifications))
	}
	if len(fwd.kinds) != 1 || fwd.kinds[0] != "lead_qualification" {
		t.Fatalf("expected one lead_qualification forward, got %v", fwd.kinds)
	}
	if mailer.alerts != 1 {
		t.Fatalf("expected one alert email, got %d", mailer.alerts)
	}
	if q.Contact.Name != "Sara" || q.Contact.Phone != "+966501234567" {
		t.Fatalf("contact not carried through: %+v", q.Contact)
	}
}

func TestQualifyColdLeadSkipsSideEffects(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"purchaseIntentScore": 30,
		"isHotLead": true,
		"reasoning": "just browsing",
		"contact": {"name": "", "email": "", "phone": ""}
	}`}
	svc, store, fwd, mailer := newTestService(gen)

	q, err := svc.QualifyTranscript(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("QualifyTranscript: %v", err)
	}
	if q.IsHotLead {
		t.Fatalf("score 30 must not be a hot lead, even when the model says so")
	}
	if len(store.qualifications) != 1 {
		t.Fatalf("cold leads are still persisted")
	}
	if len(fwd.kinds) != 0 {
		t.Fatalf("no webhook for cold leads, got %v", fwd.kinds)
	}
	if mailer.alerts != 0 {
		t.Fatalf("no alert email for cold leads")
	}
}

func TestQualifyUnavailableModelIsNoOp(t *testing.T) {
	gen := &fakeGenerator{err: ai.ErrUnavailable}
	svc, store, fwd, _ := newTestService(gen)

	_, err := svc.QualifyTranscript(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("unconfigured model must not fail the task: %v", err)
	}
	if len(store.qualifications) != 0 || len(fwd.kinds) != 0 {
		t.Fatalf("nothing should be persisted or forwarded without a model")
	}
}

func TestQualifyEmptyTranscriptSkipsModel(t *testing.T) {
	gen := &fakeGenerator{response: `{}`}
	svc, _, _, _ := newTestService(gen)

	payload := testPayload()
	payload.Transcript = nil
	if _, err := svc.QualifyTranscript(context.Background(), payload); err != nil {
		t.Fatalf("QualifyTranscript: %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("empty transcript must not reach the model")
	}
}

func TestForwardServiceRequestPersistsAndForwards(t *testing.T) {
	svc, store, fwd, _ := newTestService(&fakeGenerator{})

	err := svc.ForwardServiceRequest(context.Background(), scheduler.ForwardServiceRequestPayload{
		SessionID:      uuid.NewString(),
		Name:           "Omar",
		Email:          "omar@example.com",
		Phone:          "0501234567",
		Message:        "Need an automation audit",
		ContactMethods: []string{"email", "whatsapp"},
		ServiceTitle:   "Business Automation",
		RequestedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("ForwardServiceRequest: %v", err)
	}
	if len(store.requests) != 1 {
		t.Fatalf("expected 1 persisted request, got %d", len(store.requests))
	}
	if store.requests[0].Phone != "+966501234567" {
		t.Fatalf("phone not normalized: %q", store.requests[0].Phone)
	}
	if len(fwd.kinds) != 1 || fwd.kinds[0] != "service_request" {
		t.Fatalf("expected one service_request forward, got %v", fwd.kinds)
	}
}
