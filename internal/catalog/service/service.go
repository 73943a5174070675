package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"portfolio_backend/internal/catalog/repository"
	"portfolio_backend/internal/catalog/transport"
	"portfolio_backend/internal/events"
	"portfolio_backend/internal/storage"
	"portfolio_backend/platform/logger"
	"portfolio_backend/platform/sanitize"
)

// Service provides business logic for the portfolio content collections.
type Service struct {
	repo        repository.Repository
	store       storage.Service
	coverBucket string
	siteURL     string
	bus         events.Bus
	log         *logger.Logger
}

// New creates a catalog service. store may be nil when object storage is not
// configured; cover endpoints then report unavailability.
func New(repo repository.Repository, store storage.Service, coverBucket, siteURL string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		store:       store,
		coverBucket: coverBucket,
		siteURL:     siteURL,
		bus:         bus,
		log:         log,
	}
}

func (s *Service) contentChanged(ctx context.Context, collection string, id uuid.UUID, action string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.ContentChanged{
		BaseEvent:  events.NewBaseEvent(),
		Collection: collection,
		RecordID:   id.String(),
		Action:     action,
	})
}

func (s *Service) ListProjects(ctx context.Context) (transport.ProjectListResponse, error) {
	items, err := s.repo.ListProjects(ctx)
	if err != nil {
		return transport.ProjectListResponse{}, err
	}
	out := make([]transport.ProjectResponse, len(items))
	for i, p := range items {
		out[i] = s.toProjectResponse(ctx, p)
	}
	return transport.ProjectListResponse{Items: out, Total: len(out)}, nil
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (transport.ProjectResponse, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	return s.toProjectResponse(ctx, p), nil
}

func (s *Service) CreateProject(ctx context.Context, req transport.CreateProjectRequest) (transport.ProjectResponse, error) {
	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	}
	p, err := s.repo.CreateProject(ctx, repository.CreateProjectParams{
		TitleEN:       sanitize.Text(req.TitleEN),
		TitleAR:       sanitize.Text(req.TitleAR),
		DescriptionEN: sanitize.Text(req.DescriptionEN),
		DescriptionAR: sanitize.Text(req.DescriptionAR),
		Category:      req.Category,
		DisplayOrder:  displayOrder,
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	s.log.Info("project created", "id", p.ID, "title", p.TitleEN)
	s.contentChanged(ctx, "projects", p.ID, "created")
	return s.toProjectResponse(ctx, p), nil
}

func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, req transport.UpdateProjectRequest) (transport.ProjectResponse, error) {
	p, err := s.repo.UpdateProject(ctx, repository.UpdateProjectParams{
		ID:            id,
		TitleEN:       sanitize.TextPtr(req.TitleEN),
		TitleAR:       sanitize.TextPtr(req.TitleAR),
		DescriptionEN: sanitize.TextPtr(req.DescriptionEN),
		DescriptionAR: sanitize.TextPtr(req.DescriptionAR),
		Category:      req.Category,
		DisplayOrder:  req.DisplayOrder,
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	s.contentChanged(ctx, "projects", p.ID, "updated")
	return s.toProjectResponse(ctx, p), nil
}

func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.contentChanged(ctx, "projects", id, "deleted")
	return nil
}

func (s *Service) ListServices(ctx context.Context, activeOnly bool) (transport.ServiceListResponse, error) {
	items, err := s.repo.ListServices(ctx, activeOnly)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}
	out := make([]transport.ServiceResponse, len(items))
	for i, so := range items {
		out[i] = toServiceResponse(so)
	}
	return transport.ServiceListResponse{Items: out, Total: len(out)}, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	so, err := s.repo.GetService(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toServiceResponse(so), nil
}

func (s *Service) CreateService(ctx context.Context, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	}
	so, err := s.repo.CreateService(ctx, repository.CreateServiceParams{
		TitleEN:       sanitize.Text(req.TitleEN),
		TitleAR:       sanitize.Text(req.TitleAR),
		DescriptionEN: sanitize.Text(req.DescriptionEN),
		DescriptionAR: sanitize.Text(req.DescriptionAR),
		CategoryKey:   req.CategoryKey,
		PriceRange:    req.PriceRange,
		DisplayOrder:  displayOrder,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	s.log.Info("service created", "id", so.ID, "title", so.TitleEN, "category", so.CategoryKey)
	s.contentChanged(ctx, "services", so.ID, "created")
	return toServiceResponse(so), nil
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	so, err := s.repo.UpdateService(ctx, repository.UpdateServiceParams{
		ID:            id,
		TitleEN:       sanitize.TextPtr(req.TitleEN),
		TitleAR:       sanitize.TextPtr(req.TitleAR),
		DescriptionEN: sanitize.TextPtr(req.DescriptionEN),
		DescriptionAR: sanitize.TextPtr(req.DescriptionAR),
		CategoryKey:   req.CategoryKey,
		PriceRange:    req.PriceRange,
		DisplayOrder:  req.DisplayOrder,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	s.contentChanged(ctx, "services", so.ID, "updated")
	return toServiceResponse(so), nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	s.contentChanged(ctx, "services", id, "deleted")
	return nil
}

func (s *Service) SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetServiceActive(ctx, id, active); err != nil {
		return err
	}
	s.contentChanged(ctx, "services", id, "updated")
	return nil
}

func (s *Service) ListPosts(ctx context.Context, approvedOnly bool) (transport.PostListResponse, error) {
	items, err := s.repo.ListPosts(ctx, approvedOnly)
	if err != nil {
		return transport.PostListResponse{}, err
	}
	out := make([]transport.PostResponse, len(items))
	for i, p := range items {
		out[i] = toPostResponse(p)
	}
	return transport.PostListResponse{Items: out, Total: len(out)}, nil
}

func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (transport.PostResponse, error) {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return transport.PostResponse{}, err
	}
	return toPostResponse(p), nil
}

func (s *Service) CreatePost(ctx context.Context, req transport.CreatePostRequest) (transport.PostResponse, error) {
	p, err := s.repo.CreatePost(ctx, repository.CreatePostParams{
		TitleEN:       sanitize.Text(req.TitleEN),
		TitleAR:       sanitize.Text(req.TitleAR),
		DescriptionEN: sanitize.Text(req.DescriptionEN),
		DescriptionAR: sanitize.Text(req.DescriptionAR),
	})
	if err != nil {
		return transport.PostResponse{}, err
	}
	s.contentChanged(ctx, "posts", p.ID, "created")
	return toPostResponse(p), nil
}

func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, req transport.UpdatePostRequest) (transport.PostResponse, error) {
	p, err := s.repo.UpdatePost(ctx, repository.UpdatePostParams{
		ID:            id,
		TitleEN:       sanitize.TextPtr(req.TitleEN),
		TitleAR:       sanitize.TextPtr(req.TitleAR),
		DescriptionEN: sanitize.TextPtr(req.DescriptionEN),
		DescriptionAR: sanitize.TextPtr(req.DescriptionAR),
	})
	if err != nil {
		return transport.PostResponse{}, err
	}
	s.contentChanged(ctx, "posts", p.ID, "updated")
	return toPostResponse(p), nil
}

func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}
	s.contentChanged(ctx, "posts", id, "deleted")
	return nil
}

func (s *Service) SetPostApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	if err := s.repo.SetPostApproved(ctx, id, approved); err != nil {
		return err
	}
	s.log.Info("post approval changed", "id", id, "approved", approved)
	s.contentChanged(ctx, "posts", id, "updated")
	return nil
}

func (s *Service) toProjectResponse(ctx context.Context, p repository.Project) transport.ProjectResponse {
	resp := transport.ProjectResponse{
		ID:           p.ID,
		Title:        transport.LocalizedField{EN: p.TitleEN, AR: p.TitleAR},
		Description:  transport.LocalizedField{EN: p.DescriptionEN, AR: p.DescriptionAR},
		Category:     p.Category,
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
	if p.CoverKey != nil && s.store != nil {
		if presigned, err := s.store.GenerateDownloadURL(ctx, s.coverBucket, *p.CoverKey); err == nil {
			resp.CoverURL = presigned.URL
		} else {
			s.log.Warn("cover url generation failed", "project", p.ID, "error", err.Error())
		}
	}
	return resp
}

func toServiceResponse(so repository.ServiceOffering) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:           so.ID,
		Title:        transport.LocalizedField{EN: so.TitleEN, AR: so.TitleAR},
		Description:  transport.LocalizedField{EN: so.DescriptionEN, AR: so.DescriptionAR},
		CategoryKey:  so.CategoryKey,
		PriceRange:   so.PriceRange,
		Active:       so.Active,
		DisplayOrder: so.DisplayOrder,
		CreatedAt:    so.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    so.UpdatedAt.Format(time.RFC3339),
	}
}

func toPostResponse(p repository.Post) transport.PostResponse {
	resp := transport.PostResponse{
		ID:          p.ID,
		Title:       transport.LocalizedField{EN: p.TitleEN, AR: p.TitleAR},
		Description: transport.LocalizedField{EN: p.DescriptionEN, AR: p.DescriptionAR},
		Approved:    p.Approved,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if p.PublishedAt != nil {
		published := p.PublishedAt.Format(time.RFC3339)
		resp.PublishedAt = &published
	}
	return resp
}
