package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/internal/storage"
	"craftlink_backend/pkg/apperrors"
	"craftlink_backend/pkg/retry"

	"github.com/google/uuid"
)

// UploadConfig limits what can be uploaded.
type UploadConfig struct {
	MaxSize      int64
	AllowedTypes []string
	Provider     string
}

type UploadService struct {
	uploads     repositories.UploadRepository
	store       storage.Storage
	config      UploadConfig
	retryPolicy retry.Policy
}

func NewUploadService(uploads repositories.UploadRepository, store storage.Storage, config UploadConfig) *UploadService {
	if config.Provider == "" {
		config.Provider = "local"
	}
	return &UploadService{
		uploads:     uploads,
		store:       store,
		config:      config,
		retryPolicy: retry.DefaultPolicy(),
	}
}

// Save validates size and MIME type, writes the file to storage with retry,
// and records the upload row. The storage write happens first so a failed
// write never leaves a dangling database row.
func (s *UploadService) Save(ctx context.Context, userID, originalName, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error) {
	if s.config.MaxSize > 0 && size > s.config.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !s.typeAllowed(contentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	ext := filepath.Ext(originalName)
	path := fmt.Sprintf("%s/%d/%s%s", userID, time.Now().Year(), uuid.NewString(), ext)

	err := s.retryPolicy.Do(ctx, func() error {
		return s.store.Save(ctx, path, reader, contentType)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError,
			"storage", "Failed to store file", 502)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	upload := &models.Upload{
		UserID:          userID,
		OriginalName:    originalName,
		Path:            path,
		URL:             url,
		MimeType:        contentType,
		Size:            size,
		StorageProvider: s.config.Provider,
	}
	if err := s.uploads.Create(upload); err != nil {
		// Best effort cleanup; the orphaned object is harmless otherwise.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			logger.Warn("orphaned file cleanup failed", "path", path, "error", delErr.Error())
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToUploadResponse(upload)
	return &resp, nil
}

func (s *UploadService) GetByID(userID, uploadID string) (*dto.UploadResponse, error) {
	upload, err := s.ownUpload(userID, uploadID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUploadResponse(upload)
	return &resp, nil
}

func (s *UploadService) ListMine(userID string) ([]dto.UploadResponse, error) {
	uploads, err := s.uploads.ListByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := make([]dto.UploadResponse, 0, len(uploads))
	for i := range uploads {
		resp = append(resp, dto.ToUploadResponse(&uploads[i]))
	}
	return resp, nil
}

// Open streams the file body for download handlers.
func (s *UploadService) Open(ctx context.Context, userID, uploadID string) (*models.Upload, io.ReadCloser, error) {
	upload, err := s.ownUpload(userID, uploadID)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.store.Get(ctx, upload.Path)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return upload, body, nil
}

func (s *UploadService) Delete(ctx context.Context, userID, uploadID string) error {
	upload, err := s.ownUpload(userID, uploadID)
	if err != nil {
		return err
	}

	if err := s.uploads.Delete(uploadID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.store.Delete(ctx, upload.Path); err != nil {
		logger.Warn("file removal failed", "path", upload.Path, "error", err.Error())
	}
	return nil
}

func (s *UploadService) ownUpload(userID, uploadID string) (*models.Upload, error) {
	upload, err := s.uploads.FindByID(uploadID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUploadNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if upload.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return upload, nil
}

func (s *UploadService) typeAllowed(contentType string) bool {
	if len(s.config.AllowedTypes) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}
