package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio_backend/internal/chat/orchestrator"
	"portfolio_backend/internal/chat/repository"
	"portfolio_backend/internal/chat/transport"
	"portfolio_backend/platform/httpkit"
	"portfolio_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	savedListLimit = 50
)

type Handler struct {
	orc         *orchestrator.Orchestrator
	archive     *repository.Repository
	val         *validator.Validator
	defaultLang string
}

func New(orc *orchestrator.Orchestrator, archive *repository.Repository, val *validator.Validator, defaultLang string) *Handler {
	return &Handler{orc: orc, archive: archive, val: val, defaultLang: defaultLang}
}

// RegisterRoutes mounts the widget endpoints. rg carries optional auth and
// the AI rate limit; protected carries required auth for the archive.
func (h *Handler) RegisterRoutes(rg, protected *gin.RouterGroup) {
	rg.POST("/open", h.Open)
	rg.GET("/:id", h.State)
	rg.POST("/:id/navigate", h.Navigate)
	rg.POST("/:id/service", h.SelectService)
	rg.POST("/:id/brainstorm", h.SubmitBrainstorm)
	rg.POST("/:id/consultation", h.SubmitConsultation)
	rg.POST("/:id/save", h.SaveConversation)
	rg.POST("/:id/discuss", h.Discuss)
	rg.GET("/:id/handoff", h.TakeHandoff)
	rg.POST("/:id/request", h.RequestService)
	rg.POST("/:id/close", h.Close)

	protected.GET("/saved-conversations", h.ListSaved)
	protected.DELETE("/saved-conversations/:id", h.DeleteSaved)
}

func (h *Handler) Open(c *gin.Context) {
	lang := httpkit.Language(c, h.defaultLang)

	userID := uuid.Nil
	if id := httpkit.GetIdentity(c); id.IsAuthenticated() {
		userID = id.UserID()
	}

	snap := h.orc.Open(lang, userID)
	httpkit.JSON(c, http.StatusCreated, transport.FromSnapshot(snap, h.orc.Menu()))
}

func (h *Handler) State(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	snap, err := h.orc.State(sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	h.renderState(c, snap)
}

func (h *Handler) Navigate(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req transport.NavigateRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.orc.Navigate(sessionID, orchestrator.View(req.View))
	if httpkit.HandleError(c, err) {
		return
	}
	h.renderState(c, snap)
}

func (h *Handler) SelectService(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req transport.SelectServiceRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.orc.SelectService(c.Request.Context(), sessionID, req.Category)
	if httpkit.HandleError(c, err) {
		return
	}
	h.renderState(c, snap)
}

func (h *Handler) SubmitBrainstorm(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req transport.BrainstormRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.orc.SubmitBrainstorm(c.Request.Context(), sessionID, req.Idea)
	if httpkit.HandleError(c, err) {
		return
	}
	h.renderState(c, snap)
}

func (h *Handler) SubmitConsultation(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req transport.ConsultationRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.orc.SubmitConsultation(c.Request.Context(), sessionID, req.Problem)
	if httpkit.HandleError(c, err) {
		return
	}
	h.renderState(c, snap)
}

func (h *Handler) SaveConversation(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	userID := uuid.Nil
	if id := httpkit.GetIdentity(c); id.IsAuthenticated() {
		userID = id.UserID()
	}

	snap, err := h.orc.SaveConversation(c.Request.Context(), sessionID, userID)
	if httpkit.HandleError(c, err) {
		return
	}
	h.renderState(c, snap)
}

func (h *Handler) Discuss(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	text, err := h.orc.Discuss(c.Request.Context(), sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.HandoffResponse{Text: text})
}

func (h *Handler) TakeHandoff(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	text, err := h.orc.TakeHandoff(c.Request.Context(), sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.HandoffResponse{Text: text})
}

func (h *Handler) RequestService(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req transport.ServiceRequestForm
	if !h.bind(c, &req) {
		return
	}

	form := orchestrator.LeadForm{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Message:        req.Message,
		ContactMethods: req.ContactMethods,
	}
	snap, err := h.orc.RequestService(c.Request.Context(), sessionID, form)
	if httpkit.HandleError(c, err) {
		return
	}
	h.renderState(c, snap)
}

func (h *Handler) Close(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	h.orc.Close(c.Request.Context(), sessionID)
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListSaved(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	records, err := h.archive.ListByUser(c.Request.Context(), identity.UserID(), savedListLimit)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.SavedConversationResponse, 0, len(records))
	for _, rec := range records {
		item := transport.SavedConversationResponse{
			ID:         rec.ID.String(),
			Kind:       rec.Kind,
			UserInput:  rec.UserInput,
			AIResponse: rec.AIResponse,
			CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
		}
		if rec.ServiceTitle != nil {
			item.ServiceTitle = *rec.ServiceTitle
		}
		items = append(items, item)
	}
	httpkit.OK(c, transport.SavedConversationListResponse{Items: items, Total: len(items)})
}

func (h *Handler) DeleteSaved(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "malformed id")
		return
	}

	deleted, err := h.archive.Delete(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	if !deleted {
		httpkit.Error(c, http.StatusNotFound, "saved conversation not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) renderState(c *gin.Context, snap orchestrator.Snapshot) {
	httpkit.OK(c, transport.FromSnapshot(snap, h.orc.Menu()))
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "malformed session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
