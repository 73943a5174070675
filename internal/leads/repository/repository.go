package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/internal/leads/domain"
)

// QualificationRecord is a persisted transcript scoring outcome.
type QualificationRecord struct {
	ID           uuid.UUID
	SessionID    string
	Score        int
	IsHotLead    bool
	Reasoning    string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Language     string
	Transcript   []byte
	CreatedAt    time.Time
}

// ServiceRequestRecord is a persisted request-service form submission.
type ServiceRequestRecord struct {
	ID             uuid.UUID
	SessionID      string
	Name           string
	Email          string
	Phone          string
	Message        string
	ContactMethods []string
	ServiceTitle   string
	RequestedAt    time.Time
	CreatedAt      time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveQualification stores a scored transcript for the back-office.
func (r *Repository) SaveQualification(ctx context.Context, sessionID, language string, q domain.Qualification, transcript any) (uuid.UUID, error) {
	raw, err := json.Marshal(transcript)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal transcript: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx, `
		INSERT INTO lead_qualifications
			(session_id, score, is_hot_lead, reasoning, contact_name, contact_email, contact_phone, language, transcript)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		sessionID, q.PurchaseIntentScore, q.IsHotLead, q.Reasoning,
		q.Contact.Name, q.Contact.Email, q.Contact.Phone, language, raw,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save qualification: %w", err)
	}
	return id, nil
}

// ListQualifications returns recent qualifications, hottest first.
func (r *Repository) ListQualifications(ctx context.Context, limit int) ([]QualificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, score, is_hot_lead, reasoning,
		       contact_name, contact_email, contact_phone, language, transcript, created_at
		FROM lead_qualifications
		ORDER BY is_hot_lead DESC, score DESC, created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	defer rows.Close()

	var out []QualificationRecord
	for rows.Next() {
		var rec QualificationRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Score, &rec.IsHotLead, &rec.Reasoning,
			&rec.ContactName, &rec.ContactEmail, &rec.ContactPhone, &rec.Language,
			&rec.Transcript, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan qualification: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveServiceRequest stores a request-service submission.
func (r *Repository) SaveServiceRequest(ctx context.Context, rec ServiceRequestRecord) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO service_requests
			(session_id, name, email, phone, message, contact_methods, service_title, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		rec.SessionID, rec.Name, rec.Email, rec.Phone, rec.Message,
		rec.ContactMethods, rec.ServiceTitle, rec.RequestedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save service request: %w", err)
	}
	return id, nil
}

// ListServiceRequests returns recent submissions, newest first.
func (r *Repository) ListServiceRequests(ctx context.Context, limit int) ([]ServiceRequestRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, name, email, phone, message, contact_methods, service_title, requested_at, created_at
		FROM service_requests
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	defer rows.Close()

	var out []ServiceRequestRecord
	for rows.Next() {
		var rec ServiceRequestRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Name, &rec.Email, &rec.Phone,
			&rec.Message, &rec.ContactMethods, &rec.ServiceTitle, &rec.RequestedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service request: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
