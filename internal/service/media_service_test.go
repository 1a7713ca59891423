package service

import (
	"bytes"
	"context"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rize-social/rize/internal/model"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{B: 255, A: 255}), imaging.JPEG))
	return buf.Bytes()
}

func TestUpload_Image(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMedia)
	store := new(MockObjects)
	svc := &MediaService{Repo: repo, Store: store, MaxBytes: 1 << 20}
	body := jpegBytes(t, 40, 20)

	store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "media/"+author.ProfileID+"/") && strings.HasSuffix(key, ".jpg")
	}), "image/jpeg", body).Return("https://cdn.test/x.jpg", nil).Once()
	repo.On("Insert", ctx, mock.MatchedBy(func(m *model.Media) bool {
		return m.Width == 40 && m.Height == 20 && m.Kind == model.MediaImage
	})).Return(nil).Once()

	m, err := svc.Upload(ctx, author, "image/jpeg", body)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/x.jpg", m.URL)
	assert.Equal(t, author.ProfileID, m.ProfileID)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestUpload_Rejected(t *testing.T) {
	ctx := context.Background()
	svc := &MediaService{Repo: new(MockMedia), Store: new(MockObjects), MaxBytes: 8}

	_, err := svc.Upload(ctx, author, "image/png", nil)
	assert.ErrorIs(t, err, model.ErrInvalidMedia)

	_, err = svc.Upload(ctx, author, "image/png", make([]byte, 9))
	assert.ErrorIs(t, err, model.ErrInvalidMedia)

	_, err = svc.Upload(ctx, author, "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, model.ErrInvalidMedia)

	_, err = svc.Upload(ctx, model.Principal{}, "image/png", []byte("x"))
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestUpload_PixelLimit(t *testing.T) {
	ctx := context.Background()
	repo, store := new(MockMedia), new(MockObjects)
	svc := &MediaService{Repo: repo, Store: store, MaxPixels: 100}

	_, err := svc.Upload(ctx, author, "image/jpeg", jpegBytes(t, 40, 20))
	assert.ErrorIs(t, err, model.ErrInvalidMedia)

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestPresign(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMedia)
	store := new(MockObjects)
	svc := &MediaService{Repo: repo, Store: store, PresignTTL: 15 * time.Minute}

	store.On("PresignPut", ctx, mock.AnythingOfType("string"), "video/mp4", 15*time.Minute).
		Return("https://bucket.test/upload?sig=1", nil).Once()
	repo.On("Insert", ctx, mock.Anything).Return(nil).Once()

	up, err := svc.Presign(ctx, author, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, model.MediaVideo, up.Media.Kind)
	assert.True(t, strings.HasPrefix(up.Media.URL, "https://cdn.test/media/"+author.ProfileID+"/"))
	assert.Equal(t, "https://bucket.test/upload?sig=1", up.UploadURL)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), up.ExpiresAt, time.Minute)
}
