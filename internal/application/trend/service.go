package trend

import (
	"context"
	"errors"
	"time"

	"github.com/staHong/user-auth-account-system/internal/application/file"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/pkg/id"
)

const defaultPerPage = 10

// Detail is a single posting with its board neighbours for prev/next
// navigation. Prev is the next-newer posting, Next the next-older one.
type Detail struct {
	Trend *domain.RegulatoryTrend `json:"trend"`
	Prev  *domain.RegulatoryTrend `json:"prev,omitempty"`
	Next  *domain.RegulatoryTrend `json:"next,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req domain.CreateTrendRequest, uploads []file.Upload) (*domain.RegulatoryTrend, error)
	Get(ctx context.Context, trendID string) (*Detail, error)
	List(ctx context.Context, source, title string, page, perPage int) ([]domain.RegulatoryTrend, int, error)
	Delete(ctx context.Context, trendID string) error
}

type trendStore interface {
	Put(ctx context.Context, t *domain.RegulatoryTrend) error
	Get(ctx context.Context, trendID string) (*domain.RegulatoryTrend, error)
	ScanFiltered(ctx context.Context, source, title string) ([]domain.RegulatoryTrend, error)
	PrevNext(ctx context.Context, trendID string) (*domain.RegulatoryTrend, *domain.RegulatoryTrend, error)
	HardDelete(ctx context.Context, trendID string) error
}

type attachmentService interface {
	Attach(ctx context.Context, boardRefID string, uploads []file.Upload) ([]domain.FileUpload, error)
	ListByBoard(ctx context.Context, boardRefID string) ([]domain.FileUpload, error)
	DeleteByBoard(ctx context.Context, boardRefID string) error
}

type service struct {
	trends      trendStore
	attachments attachmentService
}

type ServiceDeps struct {
	TrendRepo   trendStore
	Attachments attachmentService
}

func NewService(deps ServiceDeps) Service {
	return &service{trends: deps.TrendRepo, attachments: deps.Attachments}
}

// Create writes the posting and attaches its files. Attachment constraints
// are validated up front so a bad batch never leaves a fileless posting;
// if attaching fails anyway the posting row is removed again.
func (s *service) Create(ctx context.Context, req domain.CreateTrendRequest, uploads []file.Upload) (*domain.RegulatoryTrend, error) {
	if err := file.ValidateUploads(uploads); err != nil {
		return nil, err
	}
	t := &domain.RegulatoryTrend{
		TrendID:    id.New(),
		SourceName: req.SourceName,
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.trends.Put(ctx, t); err != nil {
		return nil, err
	}
	if len(uploads) > 0 {
		files, err := s.attachments.Attach(ctx, t.TrendID, uploads)
		if err != nil {
			_ = s.trends.HardDelete(ctx, t.TrendID)
			return nil, err
		}
		t.AttachedFiles = files
	}
	return t, nil
}

func (s *service) Get(ctx context.Context, trendID string) (*Detail, error) {
	t, err := s.trends.Get(ctx, trendID)
	if err != nil {
		return nil, err
	}
	files, err := s.attachments.ListByBoard(ctx, trendID)
	if err != nil {
		return nil, err
	}
	t.AttachedFiles = files
	prev, next, err := s.trends.PrevNext(ctx, trendID)
	if err != nil {
		return nil, err
	}
	return &Detail{Trend: t, Prev: prev, Next: next}, nil
}

// List returns one page of postings newest first plus the total match count.
func (s *service) List(ctx context.Context, source, title string, page, perPage int) ([]domain.RegulatoryTrend, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	all, err := s.trends.ScanFiltered(ctx, source, title)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	start := (page - 1) * perPage
	if start >= total {
		return []domain.RegulatoryTrend{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// Delete removes the posting and its attachments. Attachment cleanup runs
// first; leftover failures are collected so a retry can finish the job.
func (s *service) Delete(ctx context.Context, trendID string) error {
	if _, err := s.trends.Get(ctx, trendID); err != nil {
		return err
	}
	var errs error
	if err := s.attachments.DeleteByBoard(ctx, trendID); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := s.trends.HardDelete(ctx, trendID); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}
