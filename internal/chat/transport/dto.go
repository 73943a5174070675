package transport

import (
	"portfolio_backend/internal/chat/orchestrator"
	"portfolio_backend/internal/chat/persona"
)

type NavigateRequest struct {
	View string `json:"view" validate:"required"`
}

type SelectServiceRequest struct {
	Category string `json:"category" validate:"required,max=64"`
}

type BrainstormRequest struct {
	Idea string `json:"idea" validate:"required,max=2000"`
}

type ConsultationRequest struct {
	Problem string `json:"problem" validate:"required,max=2000"`
}

type ServiceRequestForm struct {
	Name           string   `json:"name" validate:"required,max=120"`
	Email          string   `json:"email" validate:"required,email,max=254"`
	Phone          string   `json:"phone" validate:"omitempty,max=32"`
	Message        string   `json:"message" validate:"omitempty,max=2000"`
	ContactMethods []string `json:"contactMethods" validate:"omitempty,dive,oneof=email phone whatsapp telegram"`
}

type TurnResponse struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type ProposalResponse struct {
	ProblemAnalysis   string   `json:"problemAnalysis"`
	ProposedSolution  string   `json:"proposedSolution"`
	SuggestedServices []string `json:"suggestedServices"`
}

type ServiceMenuItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// StateResponse is the full widget state returned by every chat operation.
type StateResponse struct {
	SessionID     string            `json:"sessionId"`
	View          string            `json:"view"`
	Content       string            `json:"content,omitempty"`
	Notice        string            `json:"notice,omitempty"`
	Proposal      *ProposalResponse `json:"proposal,omitempty"`
	Transcript    []TurnResponse    `json:"transcript"`
	ActiveService string            `json:"activeService,omitempty"`
	Saved         bool              `json:"saved"`
	Services      []ServiceMenuItem `json:"services"`
}

type HandoffResponse struct {
	Text string `json:"text"`
}

type SavedConversationResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	UserInput    string `json:"userInput"`
	AIResponse   string `json:"aiResponse"`
	ServiceTitle string `json:"serviceTitle,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

type SavedConversationListResponse struct {
	Items []SavedConversationResponse `json:"items"`
	Total int                         `json:"total"`
}

// FromSnapshot maps orchestrator state to the wire shape.
func FromSnapshot(snap orchestrator.Snapshot, menu []persona.ServiceCategory) StateResponse {
	transcript := make([]TurnResponse, 0, len(snap.Transcript))
	for _, t := range snap.Transcript {
		transcript = append(transcript, TurnResponse{Role: t.Role, Text: t.Text})
	}

	var proposal *ProposalResponse
	if snap.Proposal != nil {
		proposal = &ProposalResponse{
			ProblemAnalysis:   snap.Proposal.ProblemAnalysis,
			ProposedSolution:  snap.Proposal.ProposedSolution,
			SuggestedServices: snap.Proposal.SuggestedServices,
		}
	}

	services := make([]ServiceMenuItem, 0, len(menu))
	for _, svc := range menu {
		services = append(services, ServiceMenuItem{Key: svc.Key, Title: svc.Title(snap.Lang)})
	}

	return StateResponse{
		SessionID:     snap.SessionID.String(),
		View:          string(snap.View),
		Content:       snap.Content,
		Notice:        snap.Notice,
		Proposal:      proposal,
		Transcript:    transcript,
		ActiveService: snap.ActiveService,
		Saved:         snap.Saved,
		Services:      services,
	}
}
