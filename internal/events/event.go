// Package events defines the domain events exchanged between modules.
package events

import "github.com/google/uuid"

// =============================================================================
// Search Events
// =============================================================================

// SearchExecuted is published after a search completes and its results are
// visible. Consumed by nothing critical; useful for analytics subscribers.
type SearchExecuted struct {
	BaseEvent
	Query      string `json:"query"`
	TypeFilter string `json:"typeFilter"`
	Results    int    `json:"results"`
}

func (e SearchExecuted) EventName() string { return "search.executed" }

// =============================================================================
// Chat / Lead Events
// =============================================================================

// LeadQualified is published when a chat transcript has been scored.
type LeadQualified struct {
	BaseEvent
	SessionID           uuid.UUID `json:"sessionId"`
	PurchaseIntentScore int       `json:"purchaseIntentScore"`
	IsHotLead           bool      `json:"isHotLead"`
}

func (e LeadQualified) EventName() string { return "chat.lead.qualified" }

// ServiceRequested is published when a visitor submits the request-service form.
type ServiceRequested struct {
	BaseEvent
	SessionID    uuid.UUID `json:"sessionId"`
	ServiceTitle string    `json:"serviceTitle"`
}

func (e ServiceRequested) EventName() string { return "chat.service.requested" }

// ConversationSaved is published when an authenticated user archives a chat exchange.
type ConversationSaved struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Kind   string    `json:"kind"`
}

func (e ConversationSaved) EventName() string { return "chat.conversation.saved" }

// =============================================================================
// Catalog Events
// =============================================================================

// ContentChanged is published on any mutation of the content collections.
type ContentChanged struct {
	BaseEvent
	Collection string `json:"collection"`
	RecordID   string `json:"recordId"`
	Action     string `json:"action"` // created, updated, deleted
}

func (e ContentChanged) EventName() string { return "catalog.content.changed" }
