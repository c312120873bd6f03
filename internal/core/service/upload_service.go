package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/macapp/admin-console/internal/api/metrics"
	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

const (
	// MaxIconSize is the largest accepted icon upload.
	MaxIconSize   = 10 << 20
	iconKeyPrefix = "icons/app"
)

var allowedIconTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type UploadService struct {
	store ports.ObjectStorage
	log   zerolog.Logger
	now   func() time.Time
}

var _ ports.UploadService = (*UploadService)(nil)

// NewUploadService wraps store, which may be nil when object storage is not
// configured; uploads then fail with domain.ErrStorageUnavailable.
func NewUploadService(store ports.ObjectStorage, log zerolog.Logger) *UploadService {
	return &UploadService{store: store, log: log, now: time.Now}
}

// UploadIcon stores an icon under icons/app/ and verifies it with a HEAD
// request before returning its public URL.
func (s *UploadService) UploadIcon(ctx context.Context, in ports.IconUpload) (*ports.UploadResult, error) {
	if !allowedIconTypes[in.ContentType] {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("Only image files (jpeg, png, gif, webp) are allowed")
	}
	if in.Size > MaxIconSize {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("File size too large. Maximum size is 10MB")
	}
	if s.store == nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, domain.ErrStorageUnavailable
	}

	key := s.iconKey(in.FileName)
	err := s.store.Put(ctx, ports.Object{
		Key:         key,
		ContentType: in.ContentType,
		Size:        in.Size,
		Body:        in.Body,
	})
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("upload icon: %w", err)
	}

	info, err := s.store.Head(ctx, key)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("verify icon: %w", err)
	}

	url := s.store.PublicURL(key)
	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	s.log.Info().
		Str("key", key).
		Int64("size", info.Size).
		Str("etag", info.ETag).
		Str("content_type", info.ContentType).
		Str("url", url).
		Msg("icon uploaded")

	return &ports.UploadResult{Key: key, URL: url}, nil
}

func (s *UploadService) iconKey(fileName string) string {
	if fileName == "" {
		fileName = "icon.png"
	}
	safeName := unsafeNameChars.ReplaceAllString(fileName, "_")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s/%d-%s%s", iconKeyPrefix, s.now().UnixMilli(), suffix, safeName)
}
