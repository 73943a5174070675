package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/search/service"
	"portfolio_backend/internal/search/transport"
	"portfolio_backend/platform/httpkit"
	"portfolio_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc         *service.Service
	val         *validator.Validator
	defaultLang string
}

func New(svc *service.Service, val *validator.Validator, defaultLang string) *Handler {
	return &Handler{svc: svc, val: val, defaultLang: defaultLang}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
	rg.GET("/popular", h.PopularSearches)
	rg.GET("/history", h.History)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lang := httpkit.Language(c, h.defaultLang)
	result, err := h.svc.Search(c.Request.Context(), req, httpkit.SessionKey(c), lang)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) PopularSearches(c *gin.Context) {
	result, err := h.svc.PopularSearches(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) History(c *gin.Context) {
	result, err := h.svc.History(c.Request.Context(), httpkit.SessionKey(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
