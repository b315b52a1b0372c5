package inquiry

import (
	"context"
	"time"

	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/pkg/id"
)

const defaultPerPage = 10

type Service interface {
	Create(ctx context.Context, req domain.CreateInquiryRequest) (*domain.Inquiry, error)
	Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error)
	List(ctx context.Context, filter domain.InquiryFilter, publicOnly bool, page, perPage int) ([]domain.Inquiry, int, error)
	Answer(ctx context.Context, inquiryID, answer string) error
}

type inquiryStore interface {
	Put(ctx context.Context, q *domain.Inquiry) error
	Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error)
	ScanFiltered(ctx context.Context, f domain.InquiryFilter) ([]domain.Inquiry, error)
	SetAnswer(ctx context.Context, inquiryID, answer string) error
}

type service struct {
	inquiries inquiryStore
}

type ServiceDeps struct {
	InquiryRepo inquiryStore
}

func NewService(deps ServiceDeps) Service {
	return &service{inquiries: deps.InquiryRepo}
}

func (s *service) Create(ctx context.Context, req domain.CreateInquiryRequest) (*domain.Inquiry, error) {
	q := &domain.Inquiry{
		InquiryID:   id.New(),
		UserName:    req.UserName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Content:     req.Content,
		Public:      req.Public,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.inquiries.Put(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *service) Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error) {
	return s.inquiries.Get(ctx, inquiryID)
}

// List returns one page of inquiries newest first plus the total match count.
// publicOnly restricts the view to entries their authors marked public, for
// the unauthenticated board.
func (s *service) List(ctx context.Context, filter domain.InquiryFilter, publicOnly bool, page, perPage int) ([]domain.Inquiry, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	all, err := s.inquiries.ScanFiltered(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if publicOnly {
		visible := all[:0]
		for _, q := range all {
			if q.Public {
				visible = append(visible, q)
			}
		}
		all = visible
	}
	total := len(all)
	start := (page - 1) * perPage
	if start >= total {
		return []domain.Inquiry{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// Answer records the operator's response on an existing inquiry.
func (s *service) Answer(ctx context.Context, inquiryID, answer string) error {
	if _, err := s.inquiries.Get(ctx, inquiryID); err != nil {
		return err
	}
	return s.inquiries.SetAnswer(ctx, inquiryID, answer)
}
