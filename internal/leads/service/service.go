package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"portfolio_backend/internal/ai"
	"portfolio_backend/internal/events"
	"portfolio_backend/internal/leads/domain"
	"portfolio_backend/internal/leads/repository"
	"portfolio_backend/internal/scheduler"
	"portfolio_backend/platform/logger"
	"portfolio_backend/platform/phone"
)

// qualifierPersona instructs the scoring model. The isHotLead field is
// requested only for schema symmetry with older payload consumers; the
// decision is re-derived from the score.
const qualifierPersona = `You are a sales-lead analyst for a freelance automation consultant.
You will receive a chat transcript between a website visitor and an assistant,
in English or Arabic. Assess the visitor's purchase intent on a 0-100 scale:
0 means idle browsing, 100 means ready to hire immediately. Consider concrete
project descriptions, budget or timeline mentions, and requests for contact.
Extract any name, email address, or phone number the visitor volunteered;
leave fields empty when absent. Reply in the requested JSON shape only.`

// AlertMailer notifies the consultant about a hot lead, best-effort.
type AlertMailer interface {
	SendHotLeadAlert(ctx context.Context, q domain.Qualification, language string) error
}

// Store persists qualifications and service requests.
type Store interface {
	SaveQualification(ctx context.Context, sessionID, language string, q domain.Qualification, transcript any) (uuid.UUID, error)
	SaveServiceRequest(ctx context.Context, rec repository.ServiceRequestRecord) (uuid.UUID, error)
}

// Forwarder delivers payloads to the configured lead webhook.
type Forwarder interface {
	Forward(ctx context.Context, kind string, payload any) error
}

// Service scores closed-chat transcripts and forwards service requests. It is
// driven by the worker's task handlers.
type Service struct {
	gen         ai.StructuredGenerator
	repo        Store
	forwarder   Forwarder
	mailer      AlertMailer
	bus         events.Bus
	phoneRegion string
	log         *logger.Logger
}

func New(gen ai.StructuredGenerator, repo Store, forwarder Forwarder, mailer AlertMailer, bus events.Bus, phoneRegion string, log *logger.Logger) *Service {
	return &Service{
		gen:         gen,
		repo:        repo,
		forwarder:   forwarder,
		mailer:      mailer,
		bus:         bus,
		phoneRegion: phoneRegion,
		log:         log,
	}
}

// modelQualification is the raw shape requested from the model.
type modelQualification struct {
	PurchaseIntentScore int    `json:"purchaseIntentScore"`
	IsHotLead           bool   `json:"isHotLead"`
	Reasoning           string `json:"reasoning"`
	Contact             struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"contact"`
}

func qualificationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"purchaseIntentScore": {Type: genai.TypeInteger},
			"isHotLead":           {Type: genai.TypeBoolean},
			"reasoning":           {Type: genai.TypeString},
			"contact": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString},
					"email": {Type: genai.TypeString},
					"phone": {Type: genai.TypeString},
				},
			},
		},
		Required: []string{"purchaseIntentScore", "reasoning"},
	}
}

// QualifyTranscript scores one transcript and runs the hot-lead side effects.
func (s *Service) QualifyTranscript(ctx context.Context, payload scheduler.QualifyLeadPayload) (domain.Qualification, error) {
	if len(payload.Transcript) == 0 {
		// Guarded at enqueue time as well; a stray empty task is a no-op.
		return domain.Qualification{}, nil
	}

	var raw modelQualification
	req := ai.Request{
		Persona: qualifierPersona,
		Prompt:  renderTranscript(payload.Transcript),
	}
	if err := s.gen.GenerateJSON(ctx, req, qualificationSchema(), &raw); err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			s.log.Warn("lead qualification skipped: ai not configured", "session", payload.SessionID)
			return domain.Qualification{}, nil
		}
		return domain.Qualification{}, err
	}

	contact := domain.Contact{
		Name:  strings.TrimSpace(raw.Contact.Name),
		Email: strings.TrimSpace(raw.Contact.Email),
		Phone: s.normalizePhone(raw.Contact.Phone),
	}
	q := domain.NewQualification(raw.PurchaseIntentScore, raw.Reasoning, contact)

	if _, err := s.repo.SaveQualification(ctx, payload.SessionID, payload.Language, q, payload.Transcript); err != nil {
		s.log.DatabaseError("save qualification", err)
	}

	s.publishQualified(ctx, payload.SessionID, q)

	if q.IsHotLead {
		// Fire-and-forget: neither failure bubbles back into the worker result.
		_ = s.forwarder.Forward(ctx, "lead_qualification", hotLeadPayload(payload, q))
		if s.mailer != nil {
			if err := s.mailer.SendHotLeadAlert(ctx, q, payload.Language); err != nil {
				s.log.Warn("hot lead alert email failed", "session", payload.SessionID, "error", err.Error())
			}
		}
	}

	return q, nil
}

// ForwardServiceRequest persists and forwards one request-service submission.
func (s *Service) ForwardServiceRequest(ctx context.Context, payload scheduler.ForwardServiceRequestPayload) error {
	rec := repository.ServiceRequestRecord{
		SessionID:      payload.SessionID,
		Name:           payload.Name,
		Email:          payload.Email,
		Phone:          s.normalizePhone(payload.Phone),
		Message:        payload.Message,
		ContactMethods: payload.ContactMethods,
		ServiceTitle:   payload.ServiceTitle,
		RequestedAt:    payload.RequestedAt,
	}
	if _, err := s.repo.SaveServiceRequest(ctx, rec); err != nil {
		s.log.DatabaseError("save service request", err)
	}

	return s.forwarder.Forward(ctx, "service_request", map[string]any{
		"name":           rec.Name,
		"email":          rec.Email,
		"phone":          rec.Phone,
		"message":        rec.Message,
		"contactMethods": rec.ContactMethods,
		"serviceTitle":   rec.ServiceTitle,
		"requestedAt":    rec.RequestedAt,
	})
}

func (s *Service) normalizePhone(input string) string {
	// Falls back to the visitor's raw input when parsing fails, so the
	// lead signal is never discarded over formatting.
	return phone.NormalizeE164(input, s.phoneRegion)
}

func (s *Service) publishQualified(ctx context.Context, sessionID string, q domain.Qualification) {
	if s.bus == nil {
		return
	}
	evt := events.LeadQualified{
		BaseEvent:           events.NewBaseEvent(),
		PurchaseIntentScore: q.PurchaseIntentScore,
		IsHotLead:           q.IsHotLead,
	}
	if parsed, err := uuid.Parse(sessionID); err == nil {
		evt.SessionID = parsed
	}
	s.bus.Publish(ctx, evt)
}

func hotLeadPayload(payload scheduler.QualifyLeadPayload, q domain.Qualification) map[string]any {
	return map[string]any{
		"type":                "lead_qualification",
		"sessionId":           payload.SessionID,
		"purchaseIntentScore": q.PurchaseIntentScore,
		"isHotLead":           q.IsHotLead,
		"reasoning":           q.Reasoning,
		"contact":             q.Contact,
		"language":            payload.Language,
		"closedAt":            payload.ClosedAt,
	}
}

func renderTranscript(turns []scheduler.TranscriptTurn) string {
	var b strings.Builder
	b.WriteString("Transcript:\n")
	for _, t := range turns {
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return b.String()
}
