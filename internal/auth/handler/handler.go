package handler

import (
	"net/http"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	playgroundvalidator "github.com/go-playground/validator/v10"

	"portfolio_backend/internal/auth/service"
	"portfolio_backend/internal/auth/transport"
	"portfolio_backend/platform/httpkit"
	"portfolio_backend/platform/validator"
)

const (
	msgInvalidRequest = "invalid request"

	// PasswordPolicy is surfaced alongside validation failures.
	PasswordPolicy = "Password must be at least 8 characters and include an uppercase letter, a lowercase letter, a number and a special character"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	_ = val.RegisterValidation("strongpassword", validateStrongPassword)
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, PasswordPolicy)
		return
	}

	profile, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toProfileResponse(profile))
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	token, profile, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LoginResponse{AccessToken: token, User: toProfileResponse(profile)})
}

func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	profile, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProfileResponse(profile))
}

func toProfileResponse(p service.Profile) transport.ProfileResponse {
	return transport.ProfileResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Roles:       p.Roles,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

// validateStrongPassword requires at least 8 characters with an uppercase
// letter, a lowercase letter, a digit and a special character.
func validateStrongPassword(fl playgroundvalidator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, char := range pw {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}
