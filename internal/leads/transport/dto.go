package transport

// ContactResponse mirrors the extracted visitor contact details.
type ContactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type QualificationResponse struct {
	ID                  string          `json:"id"`
	SessionID           string          `json:"sessionId"`
	Language            string          `json:"language"`
	PurchaseIntentScore int             `json:"purchaseIntentScore"`
	IsHotLead           bool            `json:"isHotLead"`
	Reasoning           string          `json:"reasoning"`
	Contact             ContactResponse `json:"contact"`
	CreatedAt           string          `json:"createdAt"`
}

type QualificationListResponse struct {
	Items []QualificationResponse `json:"items"`
	Total int                     `json:"total"`
}

type ServiceRequestResponse struct {
	ID             string   `json:"id"`
	SessionID      string   `json:"sessionId"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Message        string   `json:"message"`
	ContactMethods []string `json:"contactMethods"`
	ServiceTitle   string   `json:"serviceTitle"`
	RequestedAt    string   `json:"requestedAt"`
	CreatedAt      string   `json:"createdAt"`
}

type ServiceRequestListResponse struct {
	Items []ServiceRequestResponse `json:"items"`
	Total int                      `json:"total"`
}
