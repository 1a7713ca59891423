package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/media"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
)

// MediaService stores uploads and records them as media owned by the
// uploader.
type MediaService struct {
	Repo       MediaStore
	Store      ObjectStore
	MaxBytes   int64
	MaxPixels  int64
	PresignTTL time.Duration
}

// Upload stores body and returns the new media row.
func (s *MediaService) Upload(ctx context.Context, p model.Principal, contentType string, body []byte) (*model.Media, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty upload", model.ErrInvalidMedia)
	}
	if s.MaxBytes > 0 && int64(len(body)) > s.MaxBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", model.ErrInvalidMedia, s.MaxBytes)
	}
	info, err := media.Inspect(contentType, body, s.MaxPixels)
	if err != nil {
		return nil, err
	}

	m := &model.Media{
		ID:        uuid.NewString(),
		ProfileID: p.ProfileID,
		Kind:      info.Kind,
		Width:     info.Width,
		Height:    info.Height,
	}
	key := media.ObjectKey(p.ProfileID, m.ID, info.Ext)
	if m.URL, err = s.Store.Put(ctx, key, info.ContentType, body); err != nil {
		return nil, err
	}
	if err := s.Repo.Insert(ctx, m); err != nil {
		return nil, err
	}

	observability.GetLogger(ctx).Info("media uploaded",
		zap.String("media_id", m.ID),
		zap.String("kind", string(m.Kind)),
		zap.Int("bytes", len(body)),
	)
	return m, nil
}

// Presign reserves a media row and returns a URL the client uploads the
// object to directly. Dimensions stay 0x0.
func (s *MediaService) Presign(ctx context.Context, p model.Principal, contentType string) (*model.PresignedUpload, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	info, err := media.Classify(contentType)
	if err != nil {
		return nil, err
	}

	m := model.Media{
		ID:        uuid.NewString(),
		ProfileID: p.ProfileID,
		Kind:      info.Kind,
	}
	key := media.ObjectKey(p.ProfileID, m.ID, info.Ext)
	uploadURL, err := s.Store.PresignPut(ctx, key, info.ContentType, s.PresignTTL)
	if err != nil {
		return nil, err
	}
	m.URL = s.Store.URL(key)
	if err := s.Repo.Insert(ctx, &m); err != nil {
		return nil, err
	}
	return &model.PresignedUpload{
		Media:     m,
		UploadURL: uploadURL,
		ExpiresAt: time.Now().Add(s.PresignTTL).UTC(),
	}, nil
}
