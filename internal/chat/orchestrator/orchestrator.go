// Package orchestrator implements the conversation state machine behind the
// public chat widget: the service menu flow, brainstorm and consultation AI
// calls, the save/discuss/close actions, and lead handoff to the background
// worker.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"portfolio_backend/internal/ai"
	"portfolio_backend/internal/chat/persona"
	"portfolio_backend/internal/events"
	"portfolio_backend/internal/scheduler"
	"portfolio_backend/platform/apperr"
	"portfolio_backend/platform/i18n"
	"portfolio_backend/platform/logger"
)

const (
	roleUser  = "user"
	roleModel = "model"

	maxInputRunes = 2000
)

// HandoffStore holds the one-shot "discuss this" text for the contact form.
type HandoffStore interface {
	Put(ctx context.Context, sessionID, text string) error
	Take(ctx context.Context, sessionID string) (string, error)
}

// ArchiveRecord is the snapshot persisted by the save-conversation action.
type ArchiveRecord struct {
	UserID       uuid.UUID
	Kind         string // service, brainstorm, consultation
	UserInput    string
	AIResponse   string
	ServiceTitle string
}

// Archive persists saved conversations for authenticated users.
type Archive interface {
	Save(ctx context.Context, rec ArchiveRecord) (uuid.UUID, error)
}

// Orchestrator drives chat sessions. Safe for concurrent use; each session
// serializes its own AI actions.
type Orchestrator struct {
	sessions   *Manager
	gen        ai.Generator
	structured ai.StructuredGenerator
	personas   persona.Config
	handoff    HandoffStore
	archive    Archive
	qualifier  scheduler.LeadQualifier
	forwarder  scheduler.RequestForwarder
	bus        events.Bus
	log        *logger.Logger
}

func New(sessions *Manager, gen ai.Generator, structured ai.StructuredGenerator, personas persona.Config, handoff HandoffStore, archive Archive, qualifier scheduler.LeadQualifier, forwarder scheduler.RequestForwarder, bus events.Bus, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		sessions:   sessions,
		gen:        gen,
		structured: structured,
		personas:   personas,
		handoff:    handoff,
		archive:    archive,
		qualifier:  qualifier,
		forwarder:  forwarder,
		bus:        bus,
		log:        log,
	}
}

// Menu returns the configured service menu. Titles are localized at the
// transport layer from the session language.
func (o *Orchestrator) Menu() []persona.ServiceCategory {
	return o.personas.Services
}

// Open starts a new session in the main view.
func (o *Orchestrator) Open(lang i18n.Lang, userID uuid.UUID) Snapshot {
	return o.sessions.Open(lang, userID).snapshot()
}

// State returns the current snapshot of a session.
func (o *Orchestrator) State(sessionID uuid.UUID) (Snapshot, error) {
	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), nil
}

// Navigate performs a direct view transition (no AI call involved).
func (o *Orchestrator) Navigate(sessionID uuid.UUID, to View) (Snapshot, error) {
	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !to.IsValid() {
		return Snapshot{}, apperr.BadRequest("unknown view").WithOp("orchestrator.Navigate")
	}
	if !canNavigate(s.view, to) {
		return Snapshot{}, apperr.Conflict(fmt.Sprintf("cannot navigate from %s to %s", s.view, to)).WithOp("orchestrator.Navigate")
	}

	s.setView(to)
	if to == ViewMain {
		// Leaving a flow by returning to the menu drops its drafts.
		s.activeService = ""
		s.serviceKey = ""
		s.brainstorm = ""
		s.proposal = nil
		s.content = ""
	}
	return s.snapshotLocked(), nil
}

// SelectService runs the single persuasive-description generation for one
// service of the menu and lands on the service detail view.
func (o *Orchestrator) SelectService(ctx context.Context, sessionID uuid.UUID, categoryKey string) (Snapshot, error) {
	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	svc, ok := o.personas.FindService(categoryKey)
	if !ok {
		return Snapshot{}, apperr.NotFound(i18n.T(i18n.MsgServiceDetailMissing, s.Lang)).WithOp("orchestrator.SelectService")
	}

	s.mu.Lock()
	if s.view != ViewServices {
		s.mu.Unlock()
		return Snapshot{}, apperr.Conflict("service selection requires the services view").WithOp("orchestrator.SelectService")
	}
	if err := s.beginActionLocked(); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	title := svc.Title(s.Lang)
	prompt := title
	s.appendTurn(roleUser, title)
	history := append([]ai.Turn(nil), s.transcript...)
	startEpoch := s.epoch
	lang := s.Lang
	s.mu.Unlock()

	text, genErr := o.generateText(ctx, "service_detail", ai.Request{
		Persona: o.personas.ServiceDetail,
		History: history[:len(history)-1],
		Prompt:  prompt,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if s.epoch != startEpoch {
		// The visitor moved on while the call was in flight.
		return s.snapshotLocked(), nil
	}

	s.setView(ViewServiceDetail)
	s.activeService = title
	s.serviceKey = svc.Key
	if genErr != nil {
		s.content = o.failureMessage(genErr, lang)
		return s.snapshotLocked(), nil
	}
	s.appendTurn(roleModel, text)
	s.content = text
	return s.snapshotLocked(), nil
}

// SubmitBrainstorm runs the one-paragraph idea critique.
func (o *Orchestrator) SubmitBrainstorm(ctx context.Context, sessionID uuid.UUID, idea string) (Snapshot, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return Snapshot{}, apperr.Validation("idea must not be empty")
	}
	if len([]rune(idea)) > maxInputRunes {
		return Snapshot{}, apperr.Validation("idea is too long")
	}

	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.view != ViewBrainstormInput {
		s.mu.Unlock()
		return Snapshot{}, apperr.Conflict("brainstorm requires the brainstorm input view").WithOp("orchestrator.SubmitBrainstorm")
	}
	if err := s.beginActionLocked(); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.appendTurn(roleUser, idea)
	history := append([]ai.Turn(nil), s.transcript...)
	startEpoch := s.epoch
	lang := s.Lang
	service := s.activeService
	s.mu.Unlock()

	prompt := idea
	if service != "" {
		prompt = fmt.Sprintf("Service: %s\nIdea: %s", service, idea)
	}
	text, genErr := o.generateText(ctx, "brainstorm", ai.Request{
		Persona: o.personas.Brainstorm,
		History: history[:len(history)-1],
		Prompt:  prompt,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if s.epoch != startEpoch {
		return s.snapshotLocked(), nil
	}

	if genErr != nil {
		// Stay on the input view so the visitor can retry.
		s.notice = o.brainstormFailure(genErr, lang)
		return s.snapshotLocked(), nil
	}

	s.setView(ViewBrainstormResult)
	s.appendTurn(roleModel, text)
	s.brainstorm = idea
	s.content = text
	return s.snapshotLocked(), nil
}

// consultationSchema constrains suggestedServices to the configured menu.
func (o *Orchestrator) consultationSchema(lang i18n.Lang) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"problemAnalysis":  {Type: genai.TypeString},
			"proposedSolution": {Type: genai.TypeString},
			"suggestedServices": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString, Enum: o.personas.ServiceTitles(lang)},
			},
		},
		Required: []string{"problemAnalysis", "proposedSolution", "suggestedServices"},
	}
}

// SubmitConsultation runs the structured mini-proposal call. On any failure
// the session returns to the input view and no partial proposal is kept.
func (o *Orchestrator) SubmitConsultation(ctx context.Context, sessionID uuid.UUID, problem string) (Snapshot, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return Snapshot{}, apperr.Validation("problem description must not be empty")
	}
	if len([]rune(problem)) > maxInputRunes {
		return Snapshot{}, apperr.Validation("problem description is too long")
	}

	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.view != ViewConsultationInput {
		s.mu.Unlock()
		return Snapshot{}, apperr.Conflict("consultation requires the consultation input view").WithOp("orchestrator.SubmitConsultation")
	}
	if err := s.beginActionLocked(); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.appendTurn(roleUser, problem)
	history := append([]ai.Turn(nil), s.transcript...)
	startEpoch := s.epoch
	lang := s.Lang
	s.mu.Unlock()

	var proposal ConsultationProposal
	start := time.Now()
	genErr := ai.ErrUnavailable
	if o.structured != nil {
		genErr = o.structured.GenerateJSON(ctx, ai.Request{
			Persona: o.personas.Consultation,
			History: history[:len(history)-1],
			Prompt:  problem,
		}, o.consultationSchema(lang), &proposal)
	}
	if genErr == nil {
		genErr = o.validateProposal(&proposal, lang)
	}
	o.logAICall("consultation", start, genErr)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if s.epoch != startEpoch {
		return s.snapshotLocked(), nil
	}

	if genErr != nil {
		s.notice = o.consultationFailure(genErr, lang)
		s.proposal = nil
		return s.snapshotLocked(), nil
	}

	s.setView(ViewConsultationResult)
	s.proposal = &proposal
	s.appendTurn(roleModel, renderProposal(proposal))
	s.content = ""
	return s.snapshotLocked(), nil
}

// validateProposal rejects structurally valid JSON that is still unusable.
// suggestedServices entries outside the configured menu are dropped; an
// empty analysis or solution counts as malformed.
func (o *Orchestrator) validateProposal(p *ConsultationProposal, lang i18n.Lang) error {
	if strings.TrimSpace(p.ProblemAnalysis) == "" || strings.TrimSpace(p.ProposedSolution) == "" {
		return ai.ErrMalformedResponse
	}
	menu := make(map[string]bool, len(o.personas.Services))
	for _, svc := range o.personas.Services {
		menu[svc.Title(i18n.English)] = true
		menu[svc.Title(i18n.Arabic)] = true
	}
	kept := p.SuggestedServices[:0]
	for _, title := range p.SuggestedServices {
		if menu[strings.TrimSpace(title)] {
			kept = append(kept, strings.TrimSpace(title))
		}
	}
	p.SuggestedServices = kept
	return nil
}

// SaveConversation archives the current exchange under the authenticated
// user. Idempotent per view; unauthenticated callers get an explicit error.
func (o *Orchestrator) SaveConversation(ctx context.Context, sessionID, userID uuid.UUID) (Snapshot, error) {
	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	if userID == uuid.Nil {
		return Snapshot{}, apperr.Forbidden(i18n.T(i18n.MsgSignInToSave, s.Lang)).WithOp("orchestrator.SaveConversation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved {
		return s.snapshotLocked(), nil
	}

	rec, err := s.archiveRecordLocked(userID)
	if err != nil {
		return Snapshot{}, err
	}

	if _, err := o.archive.Save(ctx, rec); err != nil {
		return Snapshot{}, err
	}
	s.saved = true
	s.notice = i18n.T(i18n.MsgConversationSaved, s.Lang)

	o.publish(ctx, events.ConversationSaved{BaseEvent: events.NewBaseEvent(), UserID: userID, Kind: rec.Kind})
	return s.snapshotLocked(), nil
}

// archiveRecordLocked derives the snapshot to persist from the current view.
func (s *Session) archiveRecordLocked(userID uuid.UUID) (ArchiveRecord, error) {
	rec := ArchiveRecord{UserID: userID}

	switch s.view {
	case ViewServiceDetail:
		rec.Kind = "service"
		rec.UserInput = s.activeService
		rec.AIResponse = s.content
		rec.ServiceTitle = s.activeService
	case ViewBrainstormResult:
		rec.Kind = "brainstorm"
		rec.UserInput = s.brainstorm
		rec.AIResponse = s.content
		rec.ServiceTitle = s.activeService
	case ViewConsultationResult:
		rec.Kind = "consultation"
		rec.UserInput = lastUserTurn(s.transcript)
		if s.proposal != nil {
			rec.AIResponse = renderProposal(*s.proposal)
		}
	default:
		return ArchiveRecord{}, apperr.Conflict("nothing to save on this view").WithOp("orchestrator.SaveConversation")
	}

	if rec.AIResponse == "" {
		return ArchiveRecord{}, apperr.Conflict("nothing to save on this view").WithOp("orchestrator.SaveConversation")
	}
	return rec, nil
}

// Discuss serializes the current draft or proposal into the one-shot handoff
// slot for the contact form, then closes the session.
func (o *Orchestrator) Discuss(ctx context.Context, sessionID uuid.UUID) (string, error) {
	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	var block string
	switch s.view {
	case ViewBrainstormResult:
		block = fmt.Sprintf("Idea: %s\n\nAssistant feedback:\n%s", s.brainstorm, s.content)
		if s.activeService != "" {
			block = fmt.Sprintf("Service: %s\n%s", s.activeService, block)
		}
	case ViewConsultationResult:
		if s.proposal == nil {
			s.mu.Unlock()
			return "", apperr.Conflict("no proposal to discuss").WithOp("orchestrator.Discuss")
		}
		block = fmt.Sprintf("Problem: %s\n\n%s", lastUserTurn(s.transcript), renderProposal(*s.proposal))
	default:
		s.mu.Unlock()
		return "", apperr.Conflict("nothing to discuss on this view").WithOp("orchestrator.Discuss")
	}
	s.mu.Unlock()

	if err := o.handoff.Put(ctx, sessionID.String(), block); err != nil {
		return "", err
	}

	o.Close(ctx, sessionID)
	return block, nil
}

// TakeHandoff pops the one-shot discuss text, if any.
func (o *Orchestrator) TakeHandoff(ctx context.Context, sessionID uuid.UUID) (string, error) {
	return o.handoff.Take(ctx, sessionID.String())
}

// RequestService submits the lead form for the active service and lands on
// the success view. The webhook forward happens in the background worker.
func (o *Orchestrator) RequestService(ctx context.Context, sessionID uuid.UUID, form LeadForm) (Snapshot, error) {
	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.view != ViewRequestService {
		s.mu.Unlock()
		return Snapshot{}, apperr.Conflict("service request requires the request form view").WithOp("orchestrator.RequestService")
	}
	service := s.activeService
	lang := s.Lang
	s.mu.Unlock()

	payload := scheduler.ForwardServiceRequestPayload{
		SessionID:      sessionID.String(),
		Name:           form.Name,
		Email:          form.Email,
		Phone:          form.Phone,
		Message:        form.Message,
		ContactMethods: form.ContactMethods,
		ServiceTitle:   service,
		RequestedAt:    time.Now().UTC(),
	}
	if err := o.forwarder.EnqueueForwardServiceRequest(ctx, payload); err != nil {
		appErr := apperr.Unavailable(i18n.T(i18n.MsgAIFailed, lang)).WithOp("orchestrator.RequestService")
		appErr.Err = err
		return Snapshot{}, appErr
	}

	o.publish(ctx, events.ServiceRequested{BaseEvent: events.NewBaseEvent(), SessionID: sessionID, ServiceTitle: service})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setView(ViewRequestSuccess)
	s.notice = i18n.T(i18n.MsgRequestReceived, lang)
	return s.snapshotLocked(), nil
}

// Close resets the session to the initial state. A non-empty transcript is
// handed to the qualification queue exactly once; the reset happens whether
// or not the enqueue succeeds.
func (o *Orchestrator) Close(ctx context.Context, sessionID uuid.UUID) {
	s, err := o.sessions.Get(sessionID)
	if err != nil {
		return
	}

	s.mu.Lock()
	transcript := s.transcript
	lang := s.Lang
	s.reset()
	s.mu.Unlock()

	if len(transcript) == 0 {
		return
	}

	turns := make([]scheduler.TranscriptTurn, 0, len(transcript))
	for _, t := range transcript {
		turns = append(turns, scheduler.TranscriptTurn{Role: t.Role, Text: t.Text})
	}
	payload := scheduler.QualifyLeadPayload{
		SessionID:  sessionID.String(),
		Language:   string(lang),
		Transcript: turns,
		ClosedAt:   time.Now().UTC(),
	}
	if err := o.qualifier.EnqueueQualifyLead(ctx, payload); err != nil {
		o.log.Warn("lead qualification enqueue failed", "session", sessionID.String(), "error", err.Error())
	}
}

// beginActionLocked admits one AI action at a time per session.
func (s *Session) beginActionLocked() error {
	if s.busy {
		return apperr.Conflict("another request is still in progress").WithOp("orchestrator.beginAction")
	}
	s.busy = true
	return nil
}

func (o *Orchestrator) generateText(ctx context.Context, action string, req ai.Request) (string, error) {
	start := time.Now()
	if o.gen == nil {
		o.logAICall(action, start, ai.ErrUnavailable)
		return "", ai.ErrUnavailable
	}
	text, err := o.gen.GenerateText(ctx, req)
	o.logAICall(action, start, err)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ai.ErrMalformedResponse
	}
	return text, nil
}

func (o *Orchestrator) logAICall(action string, start time.Time, err error) {
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		o.log.AICall(action, latency, false, err.Error())
		return
	}
	o.log.AICall(action, latency, true, "")
}

func (o *Orchestrator) failureMessage(err error, lang i18n.Lang) string {
	if errors.Is(err, ai.ErrUnavailable) {
		return i18n.T(i18n.MsgAIUnavailable, lang)
	}
	return i18n.T(i18n.MsgAIFailed, lang)
}

func (o *Orchestrator) brainstormFailure(err error, lang i18n.Lang) string {
	if errors.Is(err, ai.ErrUnavailable) {
		return i18n.T(i18n.MsgAIUnavailable, lang)
	}
	return i18n.T(i18n.MsgBrainstormExhausted, lang)
}

func (o *Orchestrator) consultationFailure(err error, lang i18n.Lang) string {
	if errors.Is(err, ai.ErrUnavailable) {
		return i18n.T(i18n.MsgAIUnavailable, lang)
	}
	return i18n.T(i18n.MsgConsultationFailed, lang)
}

func (o *Orchestrator) publish(ctx context.Context, evt events.Event) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(ctx, evt)
}

func renderProposal(p ConsultationProposal) string {
	var b strings.Builder
	b.WriteString(p.ProblemAnalysis)
	b.WriteString("\n\n")
	b.WriteString(p.ProposedSolution)
	if len(p.SuggestedServices) > 0 {
		b.WriteString("\n\nSuggested services: ")
		b.WriteString(strings.Join(p.SuggestedServices, ", "))
	}
	return b.String()
}

func lastUserTurn(transcript []ai.Turn) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == roleUser {
			return transcript[i].Text
		}
	}
	return ""
}
