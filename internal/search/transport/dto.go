package transport

type SearchRequest struct {
	Query string `form:"q" validate:"required,min=3,max=100"`
	Type  string `form:"type" validate:"omitempty,oneof=all project service post"`
	Sort  string `form:"sort" validate:"omitempty,oneof=relevance title"`
}

type SearchResultItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // "project", "service", "post"
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Score       int    `json:"score"`
}

type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

type PopularSearchItem struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type PopularSearchesResponse struct {
	Items []PopularSearchItem `json:"items"`
}

type HistoryResponse struct {
	Items []string `json:"items"`
}
