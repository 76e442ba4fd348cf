package services_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"garment-designlab/internal/models"
	"garment-designlab/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	path        string
	contentType string
	data        []byte
	err         error
	deleted     []string
}

func (f *fakeStorage) UploadLayerImage(userID, projectID, filename, contentType string, data []byte) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.path = "users/" + userID + "/projects/" + projectID + "/layers/" + filename
	f.contentType = contentType
	f.data = data
	return f.path, "https://cdn.example.com/" + f.path, nil
}

func (f *fakeStorage) DeleteFile(storagePath string) error {
	f.deleted = append(f.deleted, storagePath)
	return f.err
}

func (f *fakeStorage) DeleteProjectImages(userID, projectID string) error {
	f.deleted = append(f.deleted, projectID)
	return f.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestLayerDimensions(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 800, 400, 200, 200, 100},
		{"portrait", 300, 600, 200, 100, 200},
		{"square", 500, 500, 200, 200, 200},
		{"small image keeps size", 50, 20, 200, 50, 20},
		{"invalid", 0, 10, 200, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := services.LayerDimensions(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestUploadService_ProcessImageForLayer(t *testing.T) {
	storage := &fakeStorage{}
	svc := services.NewUploadService(storage, 0, 0)

	img, err := svc.ProcessImageForLayer(context.Background(), "u-1", "p-1", models.ImageUpload{
		Filename:    "shirt.png",
		ContentType: "image/png",
		Data:        pngBytes(t, 800, 400),
	})
	require.NoError(t, err)

	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 100, img.Height)
	assert.Equal(t, 800, img.OriginalWidth)
	assert.Equal(t, 400, img.OriginalHeight)
	assert.Equal(t, 0, img.X)
	assert.Equal(t, 50, img.Y)
	assert.Equal(t, "image/png", storage.contentType)
	assert.True(t, strings.HasPrefix(storage.path, "users/u-1/projects/p-1/layers/layer_"))
	assert.True(t, strings.HasSuffix(storage.path, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+storage.path, img.ImageURL)

	details := img.ImageDetails()
	assert.Equal(t, "200", details.Width)
	assert.Equal(t, "100", details.Height)
}

func TestUploadService_CustomCenterAndSniffedType(t *testing.T) {
	storage := &fakeStorage{}
	svc := services.NewUploadService(storage, 0, 100)

	img, err := svc.ProcessImageForLayer(context.Background(), "u-1", "p-1", models.ImageUpload{
		Data:    pngBytes(t, 40, 80),
		CenterX: 300,
		CenterY: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 80, img.Height)
	assert.Equal(t, 280, img.X)
	assert.Equal(t, 160, img.Y)
	assert.Equal(t, "image/png", storage.contentType)
}

func TestUploadService_ValidateImageFile(t *testing.T) {
	svc := services.NewUploadService(&fakeStorage{}, 1024, 0)

	_, err := svc.ValidateImageFile(models.ImageUpload{})
	assert.EqualError(t, err, "Invalid file")

	_, err = svc.ValidateImageFile(models.ImageUpload{ContentType: "application/pdf", Data: []byte("%PDF")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File type application/pdf not allowed")

	_, err = svc.ValidateImageFile(models.ImageUpload{ContentType: "image/png", Data: make([]byte, 2048)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")

	ct, err := svc.ValidateImageFile(models.ImageUpload{ContentType: "image/jpeg; charset=binary", Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
}

func TestUploadService_CorruptImage(t *testing.T) {
	storage := &fakeStorage{}
	svc := services.NewUploadService(storage, 0, 0)

	_, err := svc.ProcessImageForLayer(context.Background(), "u-1", "p-1", models.ImageUpload{
		ContentType: "image/png",
		Data:        []byte("definitely not a png"),
	})
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.Classify(err))
	assert.Empty(t, storage.path)
}

func TestUploadService_StorageFailure(t *testing.T) {
	svc := services.NewUploadService(&fakeStorage{err: errors.New("bucket missing")}, 0, 0)

	_, err := svc.ProcessImageForLayer(context.Background(), "u-1", "p-1", models.ImageUpload{
		ContentType: "image/png",
		Data:        pngBytes(t, 10, 10),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store image")
}

func TestUploadService_DeleteProjectImages(t *testing.T) {
	storage := &fakeStorage{}
	svc := services.NewUploadService(storage, 0, 0)

	require.NoError(t, svc.DeleteProjectImages(context.Background(), "u-1", "p-1"))
	assert.Equal(t, []string{"p-1"}, storage.deleted)
}

func TestUploadService_DeleteImage(t *testing.T) {
	storage := &fakeStorage{}
	svc := services.NewUploadService(storage, 0, 0)

	require.NoError(t, svc.DeleteImage(context.Background(), "users/u-1/projects/p-1/layers/a.png"))
	assert.Equal(t, []string{"users/u-1/projects/p-1/layers/a.png"}, storage.deleted)

	storage.err = errors.New("bucket unavailable")
	err := svc.DeleteImage(context.Background(), "users/u-1/projects/p-1/layers/b.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete image")
}
