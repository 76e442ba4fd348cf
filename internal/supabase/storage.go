package supabase

import (
	"bytes"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) *StorageClient {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// LayerImagePrefix is the folder holding a project's layer images:
// users/{user_id}/projects/{project_id}/layers/
func LayerImagePrefix(userID, projectID string) string {
	return fmt.Sprintf("users/%s/projects/%s/layers/", userID, projectID)
}

// UploadLayerImage stores data and returns its storage path and public URL.
func (s *StorageClient) UploadLayerImage(userID, projectID, filename, contentType string, data []byte) (string, string, error) {
	storagePath := LayerImagePrefix(userID, projectID) + filename

	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteProjectImages removes every layer image stored for a project.
func (s *StorageClient) DeleteProjectImages(userID, projectID string) error {
	prefix := LayerImagePrefix(userID, projectID)

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	// Listed names are relative to the prefix.
	filePaths := make([]string, len(files))
	for i, file := range files {
		filePaths[i] = prefix + file.Name
	}
	if _, err := s.client.RemoveFile(s.bucket, filePaths); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}
