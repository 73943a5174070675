package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio_backend/internal/ai"
	"portfolio_backend/platform/i18n"
)

// ConsultationProposal is the structured outcome of a consultation call.
// Immutable once received; a failed call never produces a partial value.
type ConsultationProposal struct {
	ProblemAnalysis   string   `json:"problemAnalysis"`
	ProposedSolution  string   `json:"proposedSolution"`
	SuggestedServices []string `json:"suggestedServices"`
}

// LeadForm carries the request-service form fields.
type LeadForm struct {
	Name           string
	Email          string
	Phone          string
	Message        string
	ContactMethods []string
}

// Session is one visitor's widget state. All fields are guarded by mu; the
// busy flag admits at most one AI call in flight per session.
type Session struct {
	mu sync.Mutex

	ID     uuid.UUID
	UserID uuid.UUID // uuid.Nil for anonymous visitors
	Lang   i18n.Lang

	view          View
	epoch         uint64
	busy          bool
	transcript    []ai.Turn
	activeService string // localized title of the selected service
	serviceKey    string
	brainstorm    string
	proposal      *ConsultationProposal
	content       string // rendered model text (or localized error) for the current view
	notice        string
	saved         bool
	lastSeen      time.Time
}

func newSession(lang i18n.Lang, userID uuid.UUID) *Session {
	return &Session{
		ID:       uuid.New(),
		UserID:   userID,
		Lang:     lang,
		view:     ViewMain,
		lastSeen: time.Now(),
	}
}

// setView transitions the session and bumps the epoch so any in-flight AI
// completion started before the transition is discarded. The saved indicator
// resets on every view change.
func (s *Session) setView(v View) {
	s.view = v
	s.epoch++
	s.saved = false
	s.notice = ""
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// reset returns the session to the initial widget state, keeping identity
// and language.
func (s *Session) reset() {
	s.setView(ViewMain)
	s.transcript = nil
	s.activeService = ""
	s.serviceKey = ""
	s.brainstorm = ""
	s.proposal = nil
	s.content = ""
	s.busy = false
}

func (s *Session) appendTurn(role, text string) {
	s.transcript = append(s.transcript, ai.Turn{Role: role, Text: text})
}

// Snapshot is an immutable copy of the session state for rendering.
type Snapshot struct {
	SessionID     uuid.UUID
	View          View
	Content       string
	Notice        string
	Proposal      *ConsultationProposal
	Transcript    []ai.Turn
	ActiveService string
	Saved         bool
	Lang          i18n.Lang
}

// snapshotLocked must be called with s.mu held.
func (s *Session) snapshotLocked() Snapshot {
	transcript := make([]ai.Turn, len(s.transcript))
	copy(transcript, s.transcript)

	var proposal *ConsultationProposal
	if s.proposal != nil {
		p := *s.proposal
		p.SuggestedServices = append([]string(nil), s.proposal.SuggestedServices...)
		proposal = &p
	}

	return Snapshot{
		SessionID:     s.ID,
		View:          s.view,
		Content:       s.content,
		Notice:        s.notice,
		Proposal:      proposal,
		Transcript:    transcript,
		ActiveService: s.activeService,
		Saved:         s.saved,
		Lang:          s.Lang,
	}
}

func (s *Session) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}
