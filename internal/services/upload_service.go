package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"garment-designlab/internal/logging"
	"garment-designlab/internal/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxUploadBytes = 10 * 1024 * 1024
	DefaultLayerMaxSize   = 200
	DefaultCenterX        = 100
	DefaultCenterY        = 100
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStorage stores layer image files.
type ObjectStorage interface {
	UploadLayerImage(userID, projectID, filename, contentType string, data []byte) (storagePath, publicURL string, err error)
	DeleteFile(storagePath string) error
	DeleteProjectImages(userID, projectID string) error
}

// UploadService turns an uploaded file into an image layer placement.
type UploadService struct {
	storage  ObjectStorage
	maxBytes int64
	maxSize  int
	now      func() time.Time
}

func NewUploadService(storage ObjectStorage, maxBytes int64, maxSize int) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if maxSize <= 0 {
		maxSize = DefaultLayerMaxSize
	}
	return &UploadService{
		storage:  storage,
		maxBytes: maxBytes,
		maxSize:  maxSize,
		now:      time.Now,
	}
}

// ValidateImageFile checks the content type and size, sniffing the type
// when the client sent none.
func (s *UploadService) ValidateImageFile(upload models.ImageUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", models.NewValidationError("Invalid file")
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(upload.Data)
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	allowed := false
	for _, t := range allowedImageTypes {
		if t == contentType {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", models.NewValidationError("File type %s not allowed. Allowed types: %s",
			contentType, strings.Join(allowedImageTypes, ", "))
	}

	if int64(len(upload.Data)) > s.maxBytes {
		return "", models.NewValidationError("File size %.2fMB exceeds maximum %.2fMB",
			float64(len(upload.Data))/1024/1024, float64(s.maxBytes)/1024/1024)
	}
	return contentType, nil
}

// LayerDimensions fits an image into a maxSize square keeping its aspect
// ratio. Images smaller than maxSize keep their size.
func LayerDimensions(width, height, maxSize int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	ratio := float64(height) / float64(width)
	if width > height {
		w := min(maxSize, width)
		return w, int(math.Round(float64(w) * ratio))
	}
	h := min(maxSize, height)
	return int(math.Round(float64(h) / ratio)), h
}

func (s *UploadService) ProcessImageForLayer(ctx context.Context, userID, projectID string, upload models.ImageUpload) (models.UploadedImage, error) {
	log := logging.FromContext(ctx).WithUser(userID)

	contentType, err := s.ValidateImageFile(upload)
	if err != nil {
		return models.UploadedImage{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		return models.UploadedImage{}, models.NewValidationError("Could not read image dimensions: %v", err)
	}

	width, height := LayerDimensions(cfg.Width, cfg.Height, s.maxSize)
	if width < 1 || height < 1 {
		return models.UploadedImage{}, models.NewValidationError("Image is too small to use as a layer")
	}

	centerX, centerY := upload.CenterX, upload.CenterY
	if centerX == 0 && centerY == 0 {
		centerX, centerY = DefaultCenterX, DefaultCenterY
	}

	filename := s.filename(upload.Filename, contentType)
	storagePath, publicURL, err := s.storage.UploadLayerImage(userID, projectID, filename, contentType, upload.Data)
	if err != nil {
		return models.UploadedImage{}, fmt.Errorf("failed to store image: %w", err)
	}
	log.Infof("ProcessImageForLayer", "stored %s (%dx%d -> %dx%d)", storagePath, cfg.Width, cfg.Height, width, height)

	return models.UploadedImage{
		ImageURL:       publicURL,
		StoragePath:    storagePath,
		Width:          width,
		Height:         height,
		OriginalWidth:  cfg.Width,
		OriginalHeight: cfg.Height,
		X:              centerX - int(math.Round(float64(width)/2)),
		Y:              centerY - int(math.Round(float64(height)/2)),
	}, nil
}

// DeleteImage removes one stored layer image.
func (s *UploadService) DeleteImage(ctx context.Context, storagePath string) error {
	if err := s.storage.DeleteFile(storagePath); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", storagePath, err)
	}
	logging.FromContext(ctx).Infof("DeleteImage", "removed %s", storagePath)
	return nil
}

// DeleteProjectImages removes the stored layer images of a deleted project.
func (s *UploadService) DeleteProjectImages(ctx context.Context, userID, projectID string) error {
	if err := s.storage.DeleteProjectImages(userID, projectID); err != nil {
		return fmt.Errorf("failed to delete images for project %s: %w", projectID, err)
	}
	return nil
}

// filename is layer_{id8}_{timestamp}{ext}; the uploaded name only
// contributes its extension when the content type has none.
func (s *UploadService) filename(original, contentType string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(original))
	}
	return fmt.Sprintf("layer_%s_%s%s", uuid.New().String()[:8], s.now().Format("20060102_150405"), ext)
}
