package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/leads/repository"
	"portfolio_backend/internal/leads/transport"
	"portfolio_backend/platform/httpkit"
)

const defaultListLimit = 100

// Handler exposes the qualified-lead inbox to admins.
type Handler struct {
	repo *repository.Repository
}

func NewHandler(repo *repository.Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.ListQualifications)
	rg.GET("/service-requests", h.ListServiceRequests)
}

func (h *Handler) ListQualifications(c *gin.Context) {
	records, err := h.repo.ListQualifications(c.Request.Context(), listLimit(c))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.QualificationResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, transport.QualificationResponse{
			ID:                  rec.ID.String(),
			SessionID:           rec.SessionID,
			Language:            rec.Language,
			PurchaseIntentScore: rec.Score,
			IsHotLead:           rec.IsHotLead,
			Reasoning:           rec.Reasoning,
			Contact: transport.ContactResponse{
				Name:  rec.ContactName,
				Email: rec.ContactEmail,
				Phone: rec.ContactPhone,
			},
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}
	httpkit.OK(c, transport.QualificationListResponse{Items: items, Total: len(items)})
}

func (h *Handler) ListServiceRequests(c *gin.Context) {
	records, err := h.repo.ListServiceRequests(c.Request.Context(), listLimit(c))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ServiceRequestResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, transport.ServiceRequestResponse{
			ID:             rec.ID.String(),
			SessionID:      rec.SessionID,
			Name:           rec.Name,
			Email:          rec.Email,
			Phone:          rec.Phone,
			Message:        rec.Message,
			ContactMethods: rec.ContactMethods,
			ServiceTitle:   rec.ServiceTitle,
			RequestedAt:    rec.RequestedAt.Format(time.RFC3339),
			CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
		})
	}
	httpkit.OK(c, transport.ServiceRequestListResponse{Items: items, Total: len(items)})
}

func listLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 500 {
		return defaultListLimit
	}
	return n
}
