// Package domain holds the lead qualification value types.
package domain

// HotLeadThreshold is the purchase-intent score at which a lead counts as hot.
const HotLeadThreshold = 85

// Contact holds contact fields extracted best-effort from a transcript.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Qualification is the scored outcome of a chat transcript. IsHotLead is
// derived from the score here and nowhere else; whatever opinion the scoring
// model volunteers is ignored.
type Qualification struct {
	PurchaseIntentScore int     `json:"purchaseIntentScore"`
	IsHotLead           bool    `json:"isHotLead"`
	Reasoning           string  `json:"reasoning,omitempty"`
	Contact             Contact `json:"contact"`
}

// NewQualification clamps the score to 0..100 and derives IsHotLead.
func NewQualification(score int, reasoning string, contact Contact) Qualification {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Qualification{
		PurchaseIntentScore: score,
		IsHotLead:           score >= HotLeadThreshold,
		Reasoning:           reasoning,
		Contact:             contact,
	}
}
