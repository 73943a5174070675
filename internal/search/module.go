package search

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/events"
	apphttp "portfolio_backend/internal/http"
	"portfolio_backend/internal/search/handler"
	"portfolio_backend/internal/search/repository"
	"portfolio_backend/internal/search/service"
	"portfolio_backend/internal/search/store"
	"portfolio_backend/platform/config"
	"portfolio_backend/platform/logger"
	"portfolio_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, rdb *redis.Client, bus events.Bus, cfg config.LocaleConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	kv := store.NewRedisStore(rdb)
	svc := service.New(repo, kv, kv, bus, log)
	h := handler.New(svc, val, cfg.GetDefaultLanguage())

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/search")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
