package chat

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/ai"
	"portfolio_backend/internal/chat/handler"
	"portfolio_backend/internal/chat/orchestrator"
	"portfolio_backend/internal/chat/persona"
	"portfolio_backend/internal/chat/repository"
	"portfolio_backend/internal/chat/store"
	"portfolio_backend/internal/events"
	apphttp "portfolio_backend/internal/http"
	"portfolio_backend/internal/scheduler"
	"portfolio_backend/platform/config"
	"portfolio_backend/platform/logger"
	"portfolio_backend/platform/validator"
)

// Module owns the public conversation widget.
type Module struct {
	handler  *handler.Handler
	sessions *orchestrator.Manager
}

func NewModule(pool *pgxpool.Pool, rdb *redis.Client, gen ai.Generator, structured ai.StructuredGenerator, qualifier scheduler.LeadQualifier, forwarder scheduler.RequestForwarder, bus events.Bus, cfg config.ChatConfig, log *logger.Logger, val *validator.Validator) (*Module, error) {
	personas, err := persona.Load(cfg.GetPersonasPath())
	if err != nil {
		return nil, err
	}

	sessions := orchestrator.NewManager(orchestrator.DefaultSessionTTL, log)
	archive := repository.New(pool)
	handoff := store.NewRedisHandoff(rdb)

	orc := orchestrator.New(sessions, gen, structured, personas, handoff, archive, qualifier, forwarder, bus, log)
	h := handler.New(orc, archive, val, cfg.GetDefaultLanguage())

	return &Module{handler: h, sessions: sessions}, nil
}

func (m *Module) Name() string {
	return "chat"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Chat.Group("/chat")
	protected := ctx.Protected.Group("/chat")
	m.handler.RegisterRoutes(group, protected)
}

// Shutdown stops the session sweeper.
func (m *Module) Shutdown() {
	m.sessions.Stop()
}

var _ apphttp.Module = (*Module)(nil)
