package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/commutelog/api/internal/storage"
	"github.com/google/uuid"
)

// FileService stores uploaded images under generated names.
type FileService struct {
	storage storage.Storage
}

func NewFileService(storage storage.Storage) *FileService {
	return &FileService{
		storage: storage,
	}
}

// Upload stores file under a unique generated filename and returns that name.
// Note: File validation (type, size, content) should be done by the caller before calling Upload
func (s *FileService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext

	err := s.storage.Save(ctx, filename, file)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	slog.Debug("stored upload", "filename", filename, "original_name", header.Filename, "size", header.Size)
	return filename, nil
}

// URL returns the client-facing URL for a stored filename.
func (s *FileService) URL(filename string) string {
	return s.storage.URL(filename)
}

// URLPtr is URL for nullable image columns.
func (s *FileService) URLPtr(filename *string) *string {
	if filename == nil || *filename == "" {
		return nil
	}
	url := s.storage.URL(*filename)
	return &url
}

// Remove deletes stored files (best effort). Failures are logged, not returned,
// since the database no longer references the files.
func (s *FileService) Remove(ctx context.Context, filenames ...string) {
	for _, filename := range filenames {
		if filename == "" {
			continue
		}
		err := s.storage.Delete(ctx, filename)
		if err != nil {
			slog.Warn("failed to delete file from storage", "filename", filename, "error", err)
		}
	}
}
