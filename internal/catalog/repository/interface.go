package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Project is one portfolio entry, bilingual.
type Project struct {
	ID            uuid.UUID
	TitleEN       string
	TitleAR       string
	DescriptionEN string
	DescriptionAR string
	Category      string
	CoverKey      *string
	DisplayOrder  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ServiceOffering is one offered service, bilingual. CategoryKey ties the
// offering to a chat persona.
type ServiceOffering struct {
	ID            uuid.UUID
	TitleEN       string
	TitleAR       string
	DescriptionEN string
	DescriptionAR string
	CategoryKey   string
	PriceRange    *string
	Active        bool
	DisplayOrder  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Post is a short blog entry; only approved posts are publicly visible.
type Post struct {
	ID            uuid.UUID
	TitleEN       string
	TitleAR       string
	DescriptionEN string
	DescriptionAR string
	Approved      bool
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateProjectParams struct {
	TitleEN       string
	TitleAR       string
	DescriptionEN string
	DescriptionAR string
	Category      string
	DisplayOrder  int
}

type UpdateProjectParams struct {
	ID            uuid.UUID
	TitleEN       *string
	TitleAR       *string
	DescriptionEN *string
	DescriptionAR *string
	Category      *string
	DisplayOrder  *int
}

type CreateServiceParams struct {
	TitleEN       string
	TitleAR       string
	DescriptionEN string
	DescriptionAR string
	CategoryKey   string
	PriceRange    *string
	DisplayOrder  int
}

type UpdateServiceParams struct {
	ID            uuid.UUID
	TitleEN       *string
	TitleAR       *string
	DescriptionEN *string
	DescriptionAR *string
	CategoryKey   *string
	PriceRange    *string
	DisplayOrder  *int
}

type CreatePostParams struct {
	TitleEN       string
	TitleAR       string
	DescriptionEN string
	DescriptionAR string
}

type UpdatePostParams struct {
	ID            uuid.UUID
	TitleEN       *string
	TitleAR       *string
	DescriptionEN *string
	DescriptionAR *string
}

// ProjectRepository provides persistence for portfolio projects.
type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (Project, error)
	CreateProject(ctx context.Context, params CreateProjectParams) (Project, error)
	UpdateProject(ctx context.Context, params UpdateProjectParams) (Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	SetProjectCover(ctx context.Context, id uuid.UUID, coverKey string) error
}

// ServiceRepository provides persistence for offered services.
type ServiceRepository interface {
	ListServices(ctx context.Context, activeOnly bool) ([]ServiceOffering, error)
	GetService(ctx context.Context, id uuid.UUID) (ServiceOffering, error)
	GetServiceByCategory(ctx context.Context, categoryKey string) (ServiceOffering, error)
	CreateService(ctx context.Context, params CreateServiceParams) (ServiceOffering, error)
	UpdateService(ctx context.Context, params UpdateServiceParams) (ServiceOffering, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
	SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error
}

// PostRepository provides persistence for blog posts.
type PostRepository interface {
	ListPosts(ctx context.Context, approvedOnly bool) ([]Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (Post, error)
	CreatePost(ctx context.Context, params CreatePostParams) (Post, error)
	UpdatePost(ctx context.Context, params UpdatePostParams) (Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	SetPostApproved(ctx context.Context, id uuid.UUID, approved bool) error
}

// Repository combines all catalog persistence operations.
type Repository interface {
	ProjectRepository
	ServiceRepository
	PostRepository
}
