package service

import (
	"context"

	"github.com/hibiken/asynq"

	"portfolio_backend/internal/scheduler"
)

// QualifyLeadHandler adapts the qualifier to the worker's task interface.
type QualifyLeadHandler struct {
	svc *Service
}

func NewQualifyLeadHandler(svc *Service) *QualifyLeadHandler {
	return &QualifyLeadHandler{svc: svc}
}

func (h *QualifyLeadHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := scheduler.ParseQualifyLeadPayload(t)
	if err != nil {
		// A payload that cannot be decoded will never succeed on retry.
		return asynq.SkipRetry
	}
	_, err = h.svc.QualifyTranscript(ctx, payload)
	return err
}

// ForwardServiceRequestHandler delivers request-service submissions.
type ForwardServiceRequestHandler struct {
	svc *Service
}

func NewForwardServiceRequestHandler(svc *Service) *ForwardServiceRequestHandler {
	return &ForwardServiceRequestHandler{svc: svc}
}

func (h *ForwardServiceRequestHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := scheduler.ParseForwardServiceRequestPayload(t)
	if err != nil {
		return asynq.SkipRetry
	}
	return h.svc.ForwardServiceRequest(ctx, payload)
}

var (
	_ asynq.Handler = (*QualifyLeadHandler)(nil)
	_ asynq.Handler = (*ForwardServiceRequestHandler)(nil)
)
