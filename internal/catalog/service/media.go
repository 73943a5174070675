package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"portfolio_backend/platform/apperr"
)

// UploadProjectCover stores a cover image for the project and records its key.
func (s *Service) UploadProjectCover(ctx context.Context, id uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.store == nil {
		return "", apperr.Unavailable("object storage is not configured")
	}
	if _, err := s.repo.GetProject(ctx, id); err != nil {
		return "", err
	}

	fileKey, err := s.store.UploadImage(ctx, s.coverBucket, id.String(), fileName, contentType, reader, size)
	if err != nil {
		appErr := apperr.BadRequest("cover upload rejected").WithOp("catalog.UploadProjectCover").WithDetails(err.Error())
		appErr.Err = err
		return "", appErr
	}
	if err := s.repo.SetProjectCover(ctx, id, fileKey); err != nil {
		return "", err
	}
	s.contentChanged(ctx, "projects", id, "updated")

	presigned, err := s.store.GenerateDownloadURL(ctx, s.coverBucket, fileKey)
	if err != nil {
		// The upload succeeded; the URL can be fetched on the next read.
		s.log.Warn("cover url generation failed", "project", id, "error", err.Error())
		return "", nil
	}
	return presigned.URL, nil
}

// ProjectShareQR renders a QR code PNG pointing at the project's public page.
func (s *Service) ProjectShareQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	link := s.siteURL + "/projects/" + p.ID.String()
	png, err := qrcode.Encode(link, qrcode.Medium, 512)
	if err != nil {
		appErr := apperr.Internal("qr generation failed").WithOp("catalog.ProjectShareQR").WithDetails(err.Error())
		appErr.Err = err
		return nil, appErr
	}
	return png, nil
}
