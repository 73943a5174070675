package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/internal/ai"
	"portfolio_backend/internal/events"
	apphttp "portfolio_backend/internal/http"
	"portfolio_backend/internal/leads/handler"
	"portfolio_backend/internal/leads/repository"
	"portfolio_backend/internal/leads/service"
	"portfolio_backend/internal/leads/webhook"
	"portfolio_backend/internal/scheduler"
	"portfolio_backend/platform/config"
	"portfolio_backend/platform/logger"
)

// Module owns lead qualification and the admin lead inbox. The HTTP side is
// read-only; writes arrive through the background worker.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

func NewModule(pool *pgxpool.Pool, gen ai.StructuredGenerator, mailer service.AlertMailer, bus events.Bus, cfg config.LeadWebhookConfig, phoneRegion string, log *logger.Logger) *Module {
	repo := repository.New(pool)
	forwarder := webhook.NewForwarder(cfg, log)
	svc := service.New(gen, repo, forwarder, mailer, bus, phoneRegion, log)

	return &Module{
		handler: handler.NewHandler(repo),
		svc:     svc,
	}
}

func (m *Module) Name() string {
	return "leads"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
}

// RegisterTaskHandlers mounts the module's background tasks on the worker.
func (m *Module) RegisterTaskHandlers(w *scheduler.Worker) {
	w.Handle(scheduler.TaskQualifyLead, service.NewQualifyLeadHandler(m.svc))
	w.Handle(scheduler.TaskForwardServiceRequest, service.NewForwardServiceRequestHandler(m.svc))
}

var _ apphttp.Module = (*Module)(nil)
