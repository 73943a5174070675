// Package catalog provides the portfolio content bounded context: projects,
// offered services, and blog posts, each bilingual.
package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/internal/catalog/handler"
	"portfolio_backend/internal/catalog/repository"
	"portfolio_backend/internal/catalog/service"
	"portfolio_backend/internal/events"
	apphttp "portfolio_backend/internal/http"
	"portfolio_backend/internal/storage"
	"portfolio_backend/platform/logger"
	"portfolio_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, store storage.Service, coverBucket, siteURL string, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, coverBucket, siteURL, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read-only endpoints for the portfolio site
	ctx.V1.GET("/projects", m.handler.ListProjects)
	ctx.V1.GET("/projects/:id", m.handler.GetProject)
	ctx.V1.GET("/services", m.handler.ListServices)
	ctx.V1.GET("/services/:id", m.handler.GetService)
	ctx.V1.GET("/posts", m.handler.ListPosts)
	ctx.V1.GET("/posts/:id", m.handler.GetPost)

	// Admin-only content management
	projects := ctx.Admin.Group("/projects")
	projects.POST("", m.handler.CreateProject)
	projects.PUT("/:id", m.handler.UpdateProject)
	projects.DELETE("/:id", m.handler.DeleteProject)
	projects.POST("/:id/cover", m.handler.UploadProjectCover)
	projects.GET("/:id/share-qr", m.handler.ProjectShareQR)

	services := ctx.Admin.Group("/services")
	services.GET("", m.handler.ListAllServices)
	services.POST("", m.handler.CreateService)
	services.PUT("/:id", m.handler.UpdateService)
	services.DELETE("/:id", m.handler.DeleteService)
	services.PATCH("/:id/active", m.handler.ToggleServiceActive)

	posts := ctx.Admin.Group("/posts")
	posts.GET("", m.handler.ListAllPosts)
	posts.POST("", m.handler.CreatePost)
	posts.PUT("/:id", m.handler.UpdatePost)
	posts.DELETE("/:id", m.handler.DeletePost)
	posts.PATCH("/:id/approve", m.handler.ApprovePost)
}

var _ apphttp.Module = (*Module)(nil)
