package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/internal/search/engine"
)

// Repository loads searchable content straight from the catalog tables. It
// implements engine.ContentSource.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) FetchCollection(ctx context.Context, c engine.Collection) ([]engine.ContentRecord, error) {
	switch c {
	case engine.CollectionProjects:
		return r.fetchProjects(ctx)
	case engine.CollectionServices:
		return r.fetchServices(ctx)
	case engine.CollectionPosts:
		return r.fetchPosts(ctx)
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
}

func (r *Repository) fetchProjects(ctx context.Context) ([]engine.ContentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title_en, title_ar, description_en, description_ar, category
		FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []engine.ContentRecord
	for rows.Next() {
		var rec engine.ContentRecord
		if err := rows.Scan(&rec.ID, &rec.Title.EN, &rec.Title.AR,
			&rec.Description.EN, &rec.Description.AR, &rec.Category); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		rec.Kind = engine.KindProject
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) fetchServices(ctx context.Context) ([]engine.ContentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title_en, title_ar, description_en, description_ar
		FROM services
		WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var out []engine.ContentRecord
	for rows.Next() {
		var rec engine.ContentRecord
		if err := rows.Scan(&rec.ID, &rec.Title.EN, &rec.Title.AR,
			&rec.Description.EN, &rec.Description.AR); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		rec.Kind = engine.KindService
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) fetchPosts(ctx context.Context) ([]engine.ContentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title_en, title_ar, description_en, description_ar
		FROM posts
		WHERE approved`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var out []engine.ContentRecord
	for rows.Next() {
		var rec engine.ContentRecord
		if err := rows.Scan(&rec.ID, &rec.Title.EN, &rec.Title.AR,
			&rec.Description.EN, &rec.Description.AR); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		rec.Kind = engine.KindPost
		rec.Approved = true
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ engine.ContentSource = (*Repository)(nil)
