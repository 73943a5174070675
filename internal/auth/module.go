package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/internal/auth/handler"
	"portfolio_backend/internal/auth/repository"
	"portfolio_backend/internal/auth/service"
	apphttp "portfolio_backend/internal/http"
	"portfolio_backend/platform/config"
	"portfolio_backend/platform/validator"
)

// Module provides account registration and JWT login. Visitors register to
// archive conversations; admin accounts unlock the back-office routes.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	protected := ctx.Protected.Group("/auth")
	m.handler.RegisterRoutes(public, protected)
}

var _ apphttp.Module = (*Module)(nil)
