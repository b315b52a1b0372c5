package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/staHong/user-auth-account-system/internal/domain"
	s3infra "github.com/staHong/user-auth-account-system/internal/infrastructure/s3"
	"github.com/staHong/user-auth-account-system/internal/pkg/id"
)

// Attachment constraints enforced on every upload batch.
const (
	MaxAttachments = 10
	MaxFileSize    = 10 << 20 // 10 MiB per file
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpeg": true,
	".jpg":  true,
	".hwp":  true,
	".doc":  true,
	".docx": true,
}

type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}

type Service interface {
	Attach(ctx context.Context, boardRefID string, uploads []Upload) ([]domain.FileUpload, error)
	ListByBoard(ctx context.Context, boardRefID string) ([]domain.FileUpload, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.FileUpload, error)
	DeleteByBoard(ctx context.Context, boardRefID string) error
}

type fileStore interface {
	Put(ctx context.Context, f *domain.FileUpload) error
	Get(ctx context.Context, fileID string) (*domain.FileUpload, error)
	ListByBoardRef(ctx context.Context, boardRefID string) ([]domain.FileUpload, error)
	HardDelete(ctx context.Context, fileID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	fileRepo fileStore
	objects  objectStore
}

type ServiceDeps struct {
	FileRepo    fileStore
	ObjectStore objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{fileRepo: deps.FileRepo, objects: deps.ObjectStore}
}

// ValidateUploads checks batch and per-file constraints without touching
// storage. Exposed so callers can reject a request before any side effect.
func ValidateUploads(uploads []Upload) error {
	if len(uploads) > MaxAttachments {
		return fmt.Errorf("at most %d attachments allowed: %w", MaxAttachments, domain.ErrBadRequest)
	}
	for _, u := range uploads {
		ext := strings.ToLower(path.Ext(u.Name))
		if !allowedExtensions[ext] {
			return fmt.Errorf("file type %q not allowed: %w", ext, domain.ErrBadRequest)
		}
		if u.Size > MaxFileSize {
			return fmt.Errorf("file %q exceeds the 10MB limit: %w", u.Name, domain.ErrBadRequest)
		}
	}
	return nil
}

// Attach validates, uploads and records a batch of attachments for a board
// posting. The batch is all-or-nothing: a failure part-way through deletes
// whatever was already stored.
func (s *service) Attach(ctx context.Context, boardRefID string, uploads []Upload) ([]domain.FileUpload, error) {
	if err := ValidateUploads(uploads); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	stored := make([]domain.FileUpload, 0, len(uploads))
	for _, u := range uploads {
		safeName := sanitizeFilename(u.Name)
		f := domain.FileUpload{
			FileID:       id.New(),
			BoardRefID:   boardRefID,
			ObjectKey:    fmt.Sprintf("attachments/%s/%s_%s", boardRefID, id.New(), safeName),
			OriginalName: safeName,
			Size:         u.Size,
			CreatedAt:    now,
		}
		if _, err := s.objects.Upload(ctx, f.ObjectKey, u.Content, s3infra.ContentTypeFor(safeName)); err != nil {
			s.rollback(ctx, stored)
			return nil, err
		}
		if err := s.fileRepo.Put(ctx, &f); err != nil {
			_ = s.objects.Delete(ctx, f.ObjectKey)
			s.rollback(ctx, stored)
			return nil, err
		}
		stored = append(stored, f)
	}
	return stored, nil
}

func (s *service) ListByBoard(ctx context.Context, boardRefID string) ([]domain.FileUpload, error) {
	return s.fileRepo.ListByBoardRef(ctx, boardRefID)
}

func (s *service) Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.FileUpload, error) {
	f, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.objects.Download(ctx, f.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, f, nil
}

// DeleteByBoard removes every attachment of a posting, object and metadata
// both. Failures are collected so a retry can finish the remainder.
func (s *service) DeleteByBoard(ctx context.Context, boardRefID string) error {
	files, err := s.fileRepo.ListByBoardRef(ctx, boardRefID)
	if err != nil {
		return err
	}
	var errs error
	for _, f := range files {
		if err := s.objects.Delete(ctx, f.ObjectKey); err != nil {
			errs = errors.Join(errs, fmt.Errorf("delete object %s: %w", f.FileID, err))
			continue
		}
		if err := s.fileRepo.HardDelete(ctx, f.FileID); err != nil {
			errs = errors.Join(errs, fmt.Errorf("delete file record %s: %w", f.FileID, err))
		}
	}
	return errs
}

func (s *service) rollback(ctx context.Context, stored []domain.FileUpload) {
	for _, f := range stored {
		_ = s.objects.Delete(ctx, f.ObjectKey)
		_ = s.fileRepo.HardDelete(ctx, f.FileID)
	}
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
