package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"portfolio_backend/internal/ai"
	"portfolio_backend/internal/chat/persona"
	"portfolio_backend/internal/scheduler"
	"portfolio_backend/platform/apperr"
	"portfolio_backend/platform/i18n"
	"portfolio_backend/platform/logger"
)

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	started chan struct{} // closed signal per call, optional
	gate    chan struct{} // blocks completion when set
}

func (f *fakeGenerator) GenerateText(_ context.Context, _ ai.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	started := f.started
	gate := f.gate
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeStructured struct {
	proposal ConsultationProposal
	err      error
	calls    int
}

func (f *fakeStructured) GenerateJSON(_ context.Context, _ ai.Request, _ *genai.Schema, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	*(out.(*ConsultationProposal)) = f.proposal
	return nil
}

type fakeQualifier struct {
	payloads []scheduler.QualifyLeadPayload
}

func (f *fakeQualifier) EnqueueQualifyLead(_ context.Context, p scheduler.QualifyLeadPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

type fakeForwarder struct {
	payloads []scheduler.ForwardServiceRequestPayload
}

func (f *fakeForwarder) EnqueueForwardServiceRequest(_ context.Context, p scheduler.ForwardServiceRequestPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

type memHandoff struct {
	mu    sync.Mutex
	slots map[string]string
}

func newMemHandoff() *memHandoff {
	return &memHandoff{slots: make(map[string]string)}
}

func (m *memHandoff) Put(_ context.Context, sessionID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[sessionID] = text
	return nil
}

func (m *memHandoff) Take(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text := m.slots[sessionID]
	delete(m.slots, sessionID)
	return text, nil
}

type fakeArchive struct {
	records []ArchiveRecord
}

func (f *fakeArchive) Save(_ context.Context, rec ArchiveRecord) (uuid.UUID, error) {
	f.records = append(f.records, rec)
	return uuid.New(), nil
}

type testEnv struct {
	orc        *Orchestrator
	gen        *fakeGenerator
	structured *fakeStructured
	qualifier  *fakeQualifier
	forwarder  *fakeForwarder
	handoff    *memHandoff
	archive    *fakeArchive
	manager    *Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		gen:        &fakeGenerator{text: "generated reply"},
		structured: &fakeStructured{proposal: ConsultationProposal{
			ProblemAnalysis:   "analysis",
			ProposedSolution:  "solution",
			SuggestedServices: []string{"n8n Process Automation"},
		}},
		qualifier: &fakeQualifier{},
		forwarder: &fakeForwarder{},
		handoff:   newMemHandoff(),
		archive:   &fakeArchive{},
	}
	env.manager = NewManager(time.Minute, logger.New("development"))
	t.Cleanup(env.manager.Stop)

	env.orc = New(env.manager, env.gen, env.structured, persona.Default(), env.handoff, env.archive, env.qualifier, env.forwarder, nil, logger.New("development"))
	return env
}

// openAt walks a fresh session to the given view without AI calls.
func (env *testEnv) openAt(t *testing.T, view View) Snapshot {
	t.Helper()
	snap := env.orc.Open(i18n.English, uuid.Nil)
	if view == ViewMain {
		return snap
	}
	snap, err := env.orc.Navigate(snap.SessionID, view)
	if err != nil {
		t.Fatalf("navigate to %s: %v", view, err)
	}
	return snap
}

func (env *testEnv) openAtServiceDetail(t *testing.T) Snapshot {
	t.Helper()
	snap := env.openAt(t, ViewServices)
	snap, err := env.orc.SelectService(context.Background(), snap.SessionID, "n8n-automation")
	if err != nil {
		t.Fatalf("select service: %v", err)
	}
	if snap.View != ViewServiceDetail {
		t.Fatalf("expected service_detail, got %s", snap.View)
	}
	return snap
}

func TestOpenStartsOnMainView(t *testing.T) {
	env := newTestEnv(t)
	snap := env.orc.Open(i18n.English, uuid.Nil)
	if snap.View != ViewMain {
		t.Fatalf("expected main view, got %s", snap.View)
	}
	if len(snap.Transcript) != 0 {
		t.Fatalf("fresh session must have an empty transcript")
	}
}

func TestSelectServiceRendersTextAndTranscript(t *testing.T) {
	env := newTestEnv(t)
	env.gen.text = "X"

	snap := env.openAt(t, ViewServices)
	snap, err := env.orc.SelectService(context.Background(), snap.SessionID, "n8n-automation")
	if err != nil {
		t.Fatalf("SelectService: %v", err)
	}
	if snap.View != ViewServiceDetail {
		t.Fatalf("expected service_detail, got %s", snap.View)
	}
	if snap.Content != "X" {
		t.Fatalf("expected rendered content X, got %q", snap.Content)
	}
	if len(snap.Transcript) != 2 {
		t.Fatalf("expected 2 transcript turns, got %d", len(snap.Transcript))
	}
	if snap.Transcript[0].Role != roleUser || snap.Transcript[1].Role != roleModel {
		t.Fatalf("unexpected turn roles: %+v", snap.Transcript)
	}
	if snap.ActiveService != "n8n Process Automation" {
		t.Fatalf("unexpected active service %q", snap.ActiveService)
	}
}

func TestSelectServiceFailureRendersLocalizedError(t *testing.T) {
	env := newTestEnv(t)
	env.gen.err = errors.New("quota exceeded")

	snap := env.openAt(t, ViewServices)
	snap, err := env.orc.SelectService(context.Background(), snap.SessionID, "n8n-automation")
	if err != nil {
		t.Fatalf("SelectService: %v", err)
	}
	if snap.View != ViewServiceDetail {
		t.Fatalf("failure must still land on service_detail, got %s", snap.View)
	}
	if snap.Content != i18n.T(i18n.MsgAIFailed, i18n.English) {
		t.Fatalf("expected localized failure message, got %q", snap.Content)
	}
	if snap.Content == "" {
		t.Fatalf("content must never be empty")
	}
}

func TestSelectServiceUnavailableMessage(t *testing.T) {
	env := newTestEnv(t)
	env.gen.err = ai.ErrUnavailable

	snap := env.openAt(t, ViewServices)
	snap, err := env.orc.SelectService(context.Background(), snap.SessionID, "n8n-automation")
	if err != nil {
		t.Fatalf("SelectService: %v", err)
	}
	if snap.Content != i18n.T(i18n.MsgAIUnavailable, i18n.English) {
		t.Fatalf("expected unavailable message, got %q", snap.Content)
	}
}

func TestSelectServiceUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAt(t, ViewServices)
	_, err := env.orc.SelectService(context.Background(), snap.SessionID, "no-such-service")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNavigationDiscardsInFlightCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.gen.started = make(chan struct{}, 1)
	env.gen.gate = make(chan struct{})

	snap := env.openAt(t, ViewServices)
	sessionID := snap.SessionID

	done := make(chan Snapshot, 1)
	go func() {
		out, err := env.orc.SelectService(context.Background(), sessionID, "n8n-automation")
		if err != nil {
			t.Errorf("SelectService: %v", err)
		}
		done <- out
	}()

	<-env.gen.started
	if _, err := env.orc.Navigate(sessionID, ViewMain); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	close(env.gen.gate)

	out := <-done
	if out.View != ViewMain {
		t.Fatalf("stale completion must not change the view, got %s", out.View)
	}
	for _, turn := range out.Transcript {
		if turn.Role == roleModel {
			t.Fatalf("stale completion must not append a model turn")
		}
	}
}

func TestConcurrentActionRejectedWhileBusy(t *testing.T) {
	env := newTestEnv(t)
	env.gen.started = make(chan struct{}, 1)
	env.gen.gate = make(chan struct{})

	snap := env.openAt(t, ViewServices)
	sessionID := snap.SessionID

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := env.orc.SelectService(context.Background(), sessionID, "n8n-automation"); err != nil {
			t.Errorf("SelectService: %v", err)
		}
	}()

	<-env.gen.started
	_, err := env.orc.SelectService(context.Background(), sessionID, "telegram-bots")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict while busy, got %v", err)
	}
	close(env.gen.gate)
	<-done
}

func TestBrainstormAppendsModelTurn(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)

	snap, err := env.orc.Navigate(snap.SessionID, ViewBrainstormInput)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	env.gen.text = "one encouraging paragraph"
	snap, err = env.orc.SubmitBrainstorm(context.Background(), snap.SessionID, "a bot that tracks invoices")
	if err != nil {
		t.Fatalf("SubmitBrainstorm: %v", err)
	}
	if snap.View != ViewBrainstormResult {
		t.Fatalf("expected brainstorm_result, got %s", snap.View)
	}
	last := snap.Transcript[len(snap.Transcript)-1]
	if last.Role != roleModel || last.Text != "one encouraging paragraph" {
		t.Fatalf("unexpected final turn: %+v", last)
	}
}

func TestBrainstormFailureStaysOnInput(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)

	snap, err := env.orc.Navigate(snap.SessionID, ViewBrainstormInput)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	env.gen.err = errors.New("timeout")
	snap, err = env.orc.SubmitBrainstorm(context.Background(), snap.SessionID, "an idea")
	if err != nil {
		t.Fatalf("SubmitBrainstorm: %v", err)
	}
	if snap.View != ViewBrainstormInput {
		t.Fatalf("failure must stay on brainstorm_input, got %s", snap.View)
	}
	if snap.Notice == "" {
		t.Fatalf("expected a retry notice")
	}
}

func TestConsultationMalformedResponseStaysOnInput(t *testing.T) {
	env := newTestEnv(t)
	env.structured.err = ai.ErrMalformedResponse

	snap := env.openAt(t, ViewConsultationInput)
	snap, err := env.orc.SubmitConsultation(context.Background(), snap.SessionID, "my sales are leaking")
	if err != nil {
		t.Fatalf("SubmitConsultation: %v", err)
	}
	if snap.View != ViewConsultationInput {
		t.Fatalf("malformed response must return to consultation_input, got %s", snap.View)
	}
	if snap.Proposal != nil {
		t.Fatalf("no partial proposal may be rendered")
	}
	if snap.Notice != i18n.T(i18n.MsgConsultationFailed, i18n.English) {
		t.Fatalf("expected consultation failure notice, got %q", snap.Notice)
	}
}

func TestConsultationEmptyFieldsTreatedAsMalformed(t *testing.T) {
	env := newTestEnv(t)
	env.structured.proposal = ConsultationProposal{ProblemAnalysis: "  ", ProposedSolution: ""}

	snap := env.openAt(t, ViewConsultationInput)
	snap, err := env.orc.SubmitConsultation(context.Background(), snap.SessionID, "problem")
	if err != nil {
		t.Fatalf("SubmitConsultation: %v", err)
	}
	if snap.View != ViewConsultationInput || snap.Proposal != nil {
		t.Fatalf("blank proposal must be rejected, view=%s", snap.View)
	}
}

func TestConsultationSuccessFiltersUnknownServices(t *testing.T) {
	env := newTestEnv(t)
	env.structured.proposal = ConsultationProposal{
		ProblemAnalysis:   "analysis",
		ProposedSolution:  "solution",
		SuggestedServices: []string{"n8n Process Automation", "Quantum Computing"},
	}

	snap := env.openAt(t, ViewConsultationInput)
	snap, err := env.orc.SubmitConsultation(context.Background(), snap.SessionID, "problem")
	if err != nil {
		t.Fatalf("SubmitConsultation: %v", err)
	}
	if snap.View != ViewConsultationResult {
		t.Fatalf("expected consultation_result, got %s", snap.View)
	}
	if len(snap.Proposal.SuggestedServices) != 1 || snap.Proposal.SuggestedServices[0] != "n8n Process Automation" {
		t.Fatalf("off-menu services must be dropped: %v", snap.Proposal.SuggestedServices)
	}
}

func TestSaveRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)

	_, err := env.orc.SaveConversation(context.Background(), snap.SessionID, uuid.Nil)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("unauthenticated save must be forbidden, got %v", err)
	}
	if len(env.archive.records) != 0 {
		t.Fatalf("nothing may be archived for anonymous visitors")
	}
}

func TestSaveIsIdempotentPerView(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)
	userID := uuid.New()

	snap, err := env.orc.SaveConversation(context.Background(), snap.SessionID, userID)
	if err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}
	if !snap.Saved {
		t.Fatalf("saved flag must be set")
	}
	if _, err := env.orc.SaveConversation(context.Background(), snap.SessionID, userID); err != nil {
		t.Fatalf("repeat save: %v", err)
	}
	if len(env.archive.records) != 1 {
		t.Fatalf("repeat save must be a no-op, archived %d", len(env.archive.records))
	}
	rec := env.archive.records[0]
	if rec.Kind != "service" || rec.ServiceTitle == "" {
		t.Fatalf("unexpected archive record: %+v", rec)
	}
}

func TestSavedFlagResetsOnViewChange(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)
	userID := uuid.New()

	if _, err := env.orc.SaveConversation(context.Background(), snap.SessionID, userID); err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}
	snap, err := env.orc.Navigate(snap.SessionID, ViewBrainstormInput)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if snap.Saved {
		t.Fatalf("saved flag must reset on view change")
	}
}

func TestCloseWithEmptyTranscriptSkipsQualification(t *testing.T) {
	env := newTestEnv(t)
	snap := env.orc.Open(i18n.English, uuid.Nil)

	env.orc.Close(context.Background(), snap.SessionID)
	if len(env.qualifier.payloads) != 0 {
		t.Fatalf("empty transcript must not enqueue qualification")
	}
}

func TestCloseEnqueuesQualificationExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)

	env.orc.Close(context.Background(), snap.SessionID)
	env.orc.Close(context.Background(), snap.SessionID)

	if len(env.qualifier.payloads) != 1 {
		t.Fatalf("expected exactly one qualification task, got %d", len(env.qualifier.payloads))
	}
	payload := env.qualifier.payloads[0]
	if len(payload.Transcript) != 2 {
		t.Fatalf("payload must carry the transcript, got %d turns", len(payload.Transcript))
	}

	state, err := env.orc.State(snap.SessionID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.View != ViewMain || len(state.Transcript) != 0 {
		t.Fatalf("close must reset the session, view=%s turns=%d", state.View, len(state.Transcript))
	}
}

func TestRequestServiceForwardsAndSucceeds(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)

	snap, err := env.orc.Navigate(snap.SessionID, ViewRequestService)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	snap, err = env.orc.RequestService(context.Background(), snap.SessionID, LeadForm{
		Name:           "Omar",
		Email:          "omar@example.com",
		Phone:          "+966501234567",
		Message:        "please call me",
		ContactMethods: []string{"phone"},
	})
	if err != nil {
		t.Fatalf("RequestService: %v", err)
	}
	if snap.View != ViewRequestSuccess {
		t.Fatalf("expected request_success, got %s", snap.View)
	}
	if len(env.forwarder.payloads) != 1 {
		t.Fatalf("expected one forwarded request, got %d", len(env.forwarder.payloads))
	}
	if env.forwarder.payloads[0].ServiceTitle != "n8n Process Automation" {
		t.Fatalf("active service title must ride along, got %q", env.forwarder.payloads[0].ServiceTitle)
	}
}

func TestDiscussHandsOffAndCloses(t *testing.T) {
	env := newTestEnv(t)
	snap := env.openAtServiceDetail(t)

	snap, err := env.orc.Navigate(snap.SessionID, ViewBrainstormInput)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	snap, err = env.orc.SubmitBrainstorm(context.Background(), snap.SessionID, "invoice tracking bot")
	if err != nil {
		t.Fatalf("SubmitBrainstorm: %v", err)
	}

	block, err := env.orc.Discuss(context.Background(), snap.SessionID)
	if err != nil {
		t.Fatalf("Discuss: %v", err)
	}
	if block == "" {
		t.Fatalf("discuss must produce a text block")
	}

	stored, err := env.orc.TakeHandoff(context.Background(), snap.SessionID)
	if err != nil {
		t.Fatalf("TakeHandoff: %v", err)
	}
	if stored != block {
		t.Fatalf("handoff slot mismatch")
	}
	again, _ := env.orc.TakeHandoff(context.Background(), snap.SessionID)
	if again != "" {
		t.Fatalf("handoff slot must be one-shot")
	}

	if len(env.qualifier.payloads) != 1 {
		t.Fatalf("discuss must close and qualify the session")
	}
	state, err := env.orc.State(snap.SessionID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.View != ViewMain {
		t.Fatalf("session must reset after discuss, got %s", state.View)
	}
}

func TestNavigateRejectsInvalidTransition(t *testing.T) {
	env := newTestEnv(t)
	snap := env.orc.Open(i18n.English, uuid.Nil)

	_, err := env.orc.Navigate(snap.SessionID, ViewBrainstormResult)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for invalid transition, got %v", err)
	}
	_, err = env.orc.Navigate(snap.SessionID, View("nonsense"))
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown view, got %v", err)
	}
}

func TestManagerReapsIdleSessions(t *testing.T) {
	m := NewManager(time.Minute, logger.New("development"))
	defer m.Stop()

	s := m.Open(i18n.English, uuid.Nil)
	m.reap(time.Now().Add(2 * time.Minute))

	if _, err := m.Get(s.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("idle session must be reaped, got %v", err)
	}
}
