package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/kendall-kelly/print-shop-api/utils"
)

// MockS3Service keeps objects in memory in place of a bucket
type MockS3Service struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMockS3Service creates an empty mock bucket
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{objects: make(map[string][]byte)}
}

// UploadFile stores the upload under prefix/mock_<filename>
func (m *MockS3Service) UploadFile(_ context.Context, fileHeader *multipart.FileHeader, prefix string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/mock_%s", prefix, utils.SanitizeFilename(fileHeader.Filename))
	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()
	return key, nil
}

// GetPresignedURL returns a fake bucket URL for stored keys
func (m *MockS3Service) GetPresignedURL(_ context.Context, s3Key string) (string, error) {
	if _, ok := m.Object(s3Key); !ok {
		return "", fmt.Errorf("object %q not found in mock bucket", s3Key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}

// ObjectExists reports whether the key was uploaded
func (m *MockS3Service) ObjectExists(_ context.Context, s3Key string) (bool, error) {
	_, ok := m.Object(s3Key)
	return ok, nil
}

// Object returns the stored content of key
func (m *MockS3Service) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.objects[key]
	return content, ok
}
