package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/internal/chat/orchestrator"
)

// SavedConversation is one archived chat exchange.
type SavedConversation struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Kind         string
	UserInput    string
	AIResponse   string
	ServiceTitle *string
	CreatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save archives one exchange under the user.
func (r *Repository) Save(ctx context.Context, rec orchestrator.ArchiveRecord) (uuid.UUID, error) {
	var serviceTitle *string
	if rec.ServiceTitle != "" {
		serviceTitle = &rec.ServiceTitle
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO saved_conversations (user_id, kind, user_input, ai_response, service_title)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		rec.UserID, rec.Kind, rec.UserInput, rec.AIResponse, serviceTitle,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert saved conversation: %w", err)
	}
	return id, nil
}

// ListByUser returns the user's archive, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]SavedConversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, kind, user_input, ai_response, service_title, created_at
		FROM saved_conversations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list saved conversations: %w", err)
	}
	defer rows.Close()

	var items []SavedConversation
	for rows.Next() {
		var rec SavedConversation
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.UserInput, &rec.AIResponse, &rec.ServiceTitle, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved conversation: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved conversations: %w", err)
	}
	return items, nil
}

// Delete removes one archived exchange owned by the user.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM saved_conversations WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete saved conversation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ orchestrator.Archive = (*Repository)(nil)
