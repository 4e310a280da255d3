package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/kendall-kelly/print-shop-api/utils"
)

// DocumentChecker confirms that a file reference points at an existing, readable file
type DocumentChecker interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

// DocumentStore handles uploaded print files and receipts
type DocumentStore interface {
	DocumentChecker

	// Save validates and stores an upload, returning its reference
	Save(ctx context.Context, fileHeader *multipart.FileHeader, kind string) (string, error)

	// URL returns a download location for ref
	URL(ctx context.Context, ref string) (string, error)
}

// LocalDocumentStore keeps documents in a directory on local disk
type LocalDocumentStore struct {
	dir string
}

// NewLocalDocumentStore creates a store rooted at dir
func NewLocalDocumentStore(dir string) *LocalDocumentStore {
	return &LocalDocumentStore{dir: dir}
}

// Dir returns the storage directory
func (s *LocalDocumentStore) Dir() string { return s.dir }

// Save validates the upload and writes it to the storage directory
func (s *LocalDocumentStore) Save(_ context.Context, fileHeader *multipart.FileHeader, kind string) (string, error) {
	if err := utils.ValidateUploadedFile(fileHeader, kind); err != nil {
		return "", err
	}
	return utils.SaveUploadedFile(fileHeader, s.dir)
}

// Exists reports whether ref is a readable regular file in the storage directory
func (s *LocalDocumentStore) Exists(_ context.Context, ref string) (bool, error) {
	path, ok := s.Path(ref)
	if !ok {
		return false, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("failed to stat document: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// URL returns the API path serving ref
func (s *LocalDocumentStore) URL(_ context.Context, ref string) (string, error) {
	return utils.GetDocumentURL(ref), nil
}

// Path resolves ref inside the storage directory. Unsafe references are rejected.
func (s *LocalDocumentStore) Path(ref string) (string, bool) {
	if !utils.IsSafeReference(ref) {
		return "", false
	}
	return filepath.Join(s.dir, ref), true
}

// S3DocumentStore keeps documents in an S3 bucket
type S3DocumentStore struct {
	s3 S3Interface
}

// NewS3DocumentStore creates a store backed by s3
func NewS3DocumentStore(s3 S3Interface) *S3DocumentStore {
	return &S3DocumentStore{s3: s3}
}

// Save validates the upload and puts it under a prefix named after its kind
func (s *S3DocumentStore) Save(ctx context.Context, fileHeader *multipart.FileHeader, kind string) (string, error) {
	if err := utils.ValidateUploadedFile(fileHeader, kind); err != nil {
		return "", err
	}
	key, err := s.s3.UploadFile(ctx, fileHeader, kind+"s")
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	return key, nil
}

// Exists checks the object with a HEAD request
func (s *S3DocumentStore) Exists(ctx context.Context, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	return s.s3.ObjectExists(ctx, ref)
}

// URL returns a presigned download URL
func (s *S3DocumentStore) URL(ctx context.Context, ref string) (string, error) {
	url, err := s.s3.GetPresignedURL(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to generate document URL: %w", err)
	}
	return url, nil
}
