// Package media classifies uploads and stores them in S3.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/rize-social/rize/internal/model"
)

// DefaultMaxPixels caps decoded image area at 40 megapixels.
const DefaultMaxPixels int64 = 40_000_000

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

var videoTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

// Info describes an accepted upload.
type Info struct {
	Kind        model.MediaKind
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Classify maps a content type to a media kind and file extension.
func Classify(contentType string) (Info, error) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Info{}, fmt.Errorf("%w: content type %q", model.ErrInvalidMedia, contentType)
	}
	mt = strings.ToLower(mt)
	if ext, ok := imageTypes[mt]; ok {
		return Info{Kind: model.MediaImage, ContentType: mt, Ext: ext}, nil
	}
	if ext, ok := videoTypes[mt]; ok {
		return Info{Kind: model.MediaVideo, ContentType: mt, Ext: ext}, nil
	}
	return Info{}, fmt.Errorf("%w: unsupported content type %q", model.ErrInvalidMedia, mt)
}

// Inspect classifies body and, for images, decodes it to read the displayed
// dimensions. EXIF orientation is applied so portrait photos report
// width < height. Videos keep 0x0.
//
// The image header is read first and images larger than maxPixels are
// rejected before any pixel data is decoded. maxPixels <= 0 selects
// DefaultMaxPixels.
func Inspect(contentType string, body []byte, maxPixels int64) (Info, error) {
	info, err := Classify(contentType)
	if err != nil {
		return Info{}, err
	}
	if info.Kind != model.MediaImage {
		return info, nil
	}

	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", model.ErrInvalidMedia, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return Info{}, fmt.Errorf("%w: image is %dx%d, limit is %d pixels",
			model.ErrInvalidMedia, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", model.ErrInvalidMedia, err)
	}
	b := img.Bounds()
	info.Width, info.Height = b.Dx(), b.Dy()
	return info, nil
}

// ObjectKey is the S3 key of an upload.
func ObjectKey(profileID, mediaID, ext string) string {
	return path.Join("media", profileID, mediaID+ext)
}
