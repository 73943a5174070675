package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/platform/apperr"
)

const (
	projectNotFoundMessage = "project not found"
	serviceNotFoundMessage = "service not found"
	postNotFoundMessage    = "post not found"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const projectColumns = `id, title_en, title_ar, description_en, description_ar, category, cover_key, display_order, created_at, updated_at`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.TitleEN, &p.TitleAR, &p.DescriptionEN, &p.DescriptionAR,
		&p.Category, &p.CoverKey, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY display_order, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProject(ctx context.Context, id uuid.UUID) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *Repo) CreateProject(ctx context.Context, params CreateProjectParams) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (title_en, title_ar, description_en, description_ar, category, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+projectColumns,
		params.TitleEN, params.TitleAR, params.DescriptionEN, params.DescriptionAR,
		params.Category, params.DisplayOrder)
	p, err := scanProject(row)
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (r *Repo) UpdateProject(ctx context.Context, params UpdateProjectParams) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE projects SET
			title_en = COALESCE($2, title_en),
			title_ar = COALESCE($3, title_ar),
			description_en = COALESCE($4, description_en),
			description_ar = COALESCE($5, description_ar),
			category = COALESCE($6, category),
			display_order = COALESCE($7, display_order),
			updated_at = now()
		WHERE id = $1
		RETURNING `+projectColumns,
		params.ID, params.TitleEN, params.TitleAR, params.DescriptionEN,
		params.DescriptionAR, params.Category, params.DisplayOrder)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (r *Repo) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMessage)
	}
	return nil
}

func (r *Repo) SetProjectCover(ctx context.Context, id uuid.UUID, coverKey string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET cover_key = $2, updated_at = now() WHERE id = $1`, id, coverKey)
	if err != nil {
		return fmt.Errorf("set project cover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMessage)
	}
	return nil
}

const serviceColumns = `id, title_en, title_ar, description_en, description_ar, category_key, price_range, active, display_order, created_at, updated_at`

func scanService(row pgx.Row) (ServiceOffering, error) {
	var s ServiceOffering
	err := row.Scan(&s.ID, &s.TitleEN, &s.TitleAR, &s.DescriptionEN, &s.DescriptionAR,
		&s.CategoryKey, &s.PriceRange, &s.Active, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *Repo) ListServices(ctx context.Context, activeOnly bool) ([]ServiceOffering, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY display_order, created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []ServiceOffering
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetService(ctx context.Context, id uuid.UUID) (ServiceOffering, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceOffering{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return ServiceOffering{}, fmt.Errorf("get service: %w", err)
	}
	return s, nil
}

func (r *Repo) GetServiceByCategory(ctx context.Context, categoryKey string) (ServiceOffering, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+` FROM services WHERE category_key = $1 AND active`, categoryKey)
	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceOffering{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return ServiceOffering{}, fmt.Errorf("get service by category: %w", err)
	}
	return s, nil
}

func (r *Repo) CreateService(ctx context.Context, params CreateServiceParams) (ServiceOffering, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (title_en, title_ar, description_en, description_ar, category_key, price_range, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+serviceColumns,
		params.TitleEN, params.TitleAR, params.DescriptionEN, params.DescriptionAR,
		params.CategoryKey, params.PriceRange, params.DisplayOrder)
	s, err := scanService(row)
	if err != nil {
		return ServiceOffering{}, fmt.Errorf("create service: %w", err)
	}
	return s, nil
}

func (r *Repo) UpdateService(ctx context.Context, params UpdateServiceParams) (ServiceOffering, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services SET
			title_en = COALESCE($2, title_en),
			title_ar = COALESCE($3, title_ar),
			description_en = COALESCE($4, description_en),
			description_ar = COALESCE($5, description_ar),
			category_key = COALESCE($6, category_key),
			price_range = COALESCE($7, price_range),
			display_order = COALESCE($8, display_order),
			updated_at = now()
		WHERE id = $1
		RETURNING `+serviceColumns,
		params.ID, params.TitleEN, params.TitleAR, params.DescriptionEN,
		params.DescriptionAR, params.CategoryKey, params.PriceRange, params.DisplayOrder)
	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceOffering{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return ServiceOffering{}, fmt.Errorf("update service: %w", err)
	}
	return s, nil
}

func (r *Repo) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}

func (r *Repo) SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set service active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}

const postColumns = `id, title_en, title_ar, description_en, description_ar, approved, published_at, created_at, updated_at`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.TitleEN, &p.TitleAR, &p.DescriptionEN, &p.DescriptionAR,
		&p.Approved, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) ListPosts(ctx context.Context, approvedOnly bool) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	if approvedOnly {
		query += ` WHERE approved`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetPost(ctx context.Context, id uuid.UUID) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, apperr.NotFound(postNotFoundMessage)
		}
		return Post{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (r *Repo) CreatePost(ctx context.Context, params CreatePostParams) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title_en, title_ar, description_en, description_ar)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns,
		params.TitleEN, params.TitleAR, params.DescriptionEN, params.DescriptionAR)
	p, err := scanPost(row)
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (r *Repo) UpdatePost(ctx context.Context, params UpdatePostParams) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE posts SET
			title_en = COALESCE($2, title_en),
			title_ar = COALESCE($3, title_ar),
			description_en = COALESCE($4, description_en),
			description_ar = COALESCE($5, description_ar),
			updated_at = now()
		WHERE id = $1
		RETURNING `+postColumns,
		params.ID, params.TitleEN, params.TitleAR, params.DescriptionEN, params.DescriptionAR)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, apperr.NotFound(postNotFoundMessage)
		}
		return Post{}, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (r *Repo) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(postNotFoundMessage)
	}
	return nil
}

func (r *Repo) SetPostApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET
			approved = $2,
			published_at = CASE WHEN $2 AND published_at IS NULL THEN now() ELSE published_at END,
			updated_at = now()
		WHERE id = $1`, id, approved)
	if err != nil {
		return fmt.Errorf("set post approved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(postNotFoundMessage)
	}
	return nil
}
