package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFileSize is 20MB in bytes
	MaxFileSize = 20 * 1024 * 1024

	// KindDocument is a file to print
	KindDocument = "document"
	// KindReceipt is a payment receipt image
	KindReceipt = "receipt"
)

var allowedExtensions = map[string][]string{
	KindDocument: {".pdf", ".doc", ".docx", ".png", ".jpg", ".jpeg"},
	KindReceipt:  {".png", ".jpg", ".jpeg"},
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateUploadedFile validates the uploaded file size and extension for kind
func ValidateUploadedFile(fileHeader *multipart.FileHeader, kind string) error {
	allowed, ok := allowedExtensions[kind]
	if !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_KIND",
			Message: fmt.Sprintf("Unknown file kind %q, expected %q or %q", kind, KindDocument, KindReceipt),
		}
	}

	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("Only %s files are allowed", strings.Join(allowed, ", ")),
	}
}

// IsSafeReference reports whether ref is a bare file name that cannot escape its directory
func IsSafeReference(ref string) bool {
	return ref != "" && ref != "." && !strings.Contains(ref, "..") && !strings.ContainsAny(ref, `/\`)
}

// SanitizeFilename keeps the base name and replaces characters the data files cannot carry
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', ';', ' ', '\n', '\r', '\\', '/':
			return '_'
		}
		return r
	}, name)
}

// SaveUploadedFile saves the uploaded file to the local filesystem
// Returns the file name relative to uploadDir
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir string) (filename string, err error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Prefix with a timestamp to prevent collisions
	filename = fmt.Sprintf("%d_%s", time.Now().UnixNano(), SanitizeFilename(fileHeader.Filename))
	fullPath := filepath.Join(uploadDir, filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			fmt.Printf("warning: failed to close source file: %v\n", closeErr)
		}
	}()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// GetDocumentURL returns the URL path for downloading a locally stored document
func GetDocumentURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/documents/%s", filename)
}
