package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/imageprocessor"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/services/dto"
	"rentease_backend/internal/storage"
	"rentease_backend/pkg/apperrors"
)

// SignedLinkTTL - время жизни ссылки на файл приватного бакета
const SignedLinkTTL = 15 * time.Minute

type UploadService interface {
	Upload(ctx context.Context, actor auth.Session, bucketName string, file *multipart.FileHeader) (*dto.UploadResponse, error)
	Link(ctx context.Context, actor auth.Session, path string) (*dto.FileLinkResponse, error)
	Delete(ctx context.Context, actor auth.Session, path string) error
}

type UploadServiceImpl struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	maxSize   int64
	now       func() time.Time
}

func NewUploadService(store storage.Storage, processor *imageprocessor.Processor, maxSize int64) UploadService {
	return &UploadServiceImpl{
		storage:   store,
		processor: processor,
		maxSize:   maxSize,
		now:       time.Now,
	}
}

// Upload - проверка бакета, роли, размера и типа; для бакетов с превью
// дополнительно сохраняется миниатюра
func (s *UploadServiceImpl) Upload(ctx context.Context, actor auth.Session, bucketName string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	bucket, ok := storage.LookupBucket(bucketName)
	if !ok {
		return nil, apperrors.ErrUnknownBucket
	}
	if bucket.AdminOnly && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if bucket.AgentOnly && !actor.IsAgent() && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	limit := s.maxSize
	if bucket.MaxSize > 0 && (limit <= 0 || bucket.MaxSize < limit) {
		limit = bucket.MaxSize
	}
	if file == nil {
		return nil, apperrors.FieldError("file", "File is required")
	}
	if limit > 0 && file.Size > limit {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	reader := io.Reader(src)
	if limit > 0 {
		reader = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to read uploaded file: %w", err))
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, apperrors.ErrFileTooLarge
	}

	// тип определяется по содержимому, заголовок клиента не учитывается
	mimeType := http.DetectContentType(data)
	if !bucket.Allows(mimeType) {
		return nil, apperrors.ErrInvalidFileType
	}
	if bucket.Image && !imageprocessor.IsValidImage(data) {
		return nil, apperrors.ErrInvalidFileType
	}

	key := bucket.ObjectKey(actor.UserID(), filepath.Ext(file.Filename), s.now())
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}
	url, err := s.objectURL(ctx, bucket, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UploadResponse{
		Bucket:   bucket.Name,
		Path:     key,
		URL:      url,
		Size:     int64(len(data)),
		MimeType: mimeType,
	}

	if bucket.Thumbnail && s.processor != nil {
		thumbURL, err := s.saveThumbnail(ctx, key, data)
		if err != nil {
			// оригинал уже сохранен, без превью клиент использует его
			logger.Warn("Failed to create thumbnail", "path", key, "error", err)
		} else {
			resp.ThumbnailURL = thumbURL
		}
	}

	logger.Info("File uploaded", "bucket", bucket.Name, "path", key, "size", resp.Size, "user_id", actor.UserID())
	return resp, nil
}

func (s *UploadServiceImpl) saveThumbnail(ctx context.Context, key string, data []byte) (string, error) {
	thumb, err := s.processor.Thumbnail(data)
	if err != nil {
		return "", err
	}
	thumbKey := storage.ThumbnailKey(key)
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(thumb), "image/jpeg"); err != nil {
		return "", err
	}
	return s.storage.URL(thumbKey), nil
}

func (s *UploadServiceImpl) objectURL(ctx context.Context, bucket storage.Bucket, key string) (string, error) {
	if bucket.Private {
		return s.storage.SignedURL(ctx, key, SignedLinkTTL)
	}
	return s.storage.URL(key), nil
}

// ownedObject - файл доступен владельцу (второй сегмент пути) и администратору.
// Чужой файл выглядит как несуществующий.
func (s *UploadServiceImpl) ownedObject(ctx context.Context, actor auth.Session, path string) (storage.Bucket, error) {
	bucket, ownerID, ok := storage.ParseKey(path)
	if !ok {
		return storage.Bucket{}, apperrors.FieldError("path", "Invalid file path")
	}
	if ownerID != actor.UserID() && !actor.IsAdmin() {
		return storage.Bucket{}, apperrors.ErrFileNotFound
	}
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return storage.Bucket{}, apperrors.InternalError(err)
	}
	if !exists {
		return storage.Bucket{}, apperrors.ErrFileNotFound
	}
	return bucket, nil
}

// Link выдает ссылку на файл; для приватных бакетов (документы агента)
// это подписанная ссылка на SignedLinkTTL
func (s *UploadServiceImpl) Link(ctx context.Context, actor auth.Session, path string) (*dto.FileLinkResponse, error) {
	bucket, err := s.ownedObject(ctx, actor, path)
	if err != nil {
		return nil, err
	}
	url, err := s.objectURL(ctx, bucket, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := &dto.FileLinkResponse{Path: path, URL: url}
	if bucket.Private {
		expiresAt := s.now().Add(SignedLinkTTL)
		resp.ExpiresAt = &expiresAt
	}
	return resp, nil
}

// Delete удаляет файл вместе с миниатюрой, если она есть
func (s *UploadServiceImpl) Delete(ctx context.Context, actor auth.Session, path string) error {
	bucket, err := s.ownedObject(ctx, actor, path)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		return apperrors.InternalError(err)
	}
	if bucket.Thumbnail {
		if err := s.storage.Delete(ctx, storage.ThumbnailKey(path)); err != nil {
			logger.Warn("Failed to delete thumbnail", "path", path, "error", err)
		}
	}

	logger.Info("File deleted", "bucket", bucket.Name, "path", path, "user_id", actor.UserID())
	return nil
}
