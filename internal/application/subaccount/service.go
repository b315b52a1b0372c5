package subaccount

import (
	"context"
	"fmt"
	"time"

	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/pkg/password"
)

type Service interface {
	Add(ctx context.Context, ownerID string, req domain.CreateSubAccountRequest) (*domain.SubAccount, error)
	List(ctx context.Context, ownerID string) ([]domain.SubAccount, error)
	Delete(ctx context.Context, ownerID, subAccountID string) error
}

type subAccountStore interface {
	Put(ctx context.Context, s *domain.SubAccount) error
	GetActive(ctx context.Context, accountID string) (*domain.SubAccount, error)
	ListActiveByOwner(ctx context.Context, ownerID string) ([]domain.SubAccount, error)
	CountActiveByOwner(ctx context.Context, ownerID string) (int, error)
	SoftDelete(ctx context.Context, accountID string, at time.Time) error
}

type accountResolver interface {
	IDExists(ctx context.Context, accountID string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type service struct {
	subs     subAccountStore
	resolver accountResolver
}

type ServiceDeps struct {
	SubAccountRepo subAccountStore
	Resolver       accountResolver
}

func NewService(deps ServiceDeps) Service {
	return &service{subs: deps.SubAccountRepo, resolver: deps.Resolver}
}

// Add creates a delegated account under ownerID. The new id and email must be
// unused across both namespaces, and an owner may hold at most
// domain.MaxActiveSubAccounts active sub-accounts. Uniqueness runs against
// active records only, so a deleted sub-account's id becomes available again.
func (s *service) Add(ctx context.Context, ownerID string, req domain.CreateSubAccountRequest) (*domain.SubAccount, error) {
	taken, err := s.resolver.IDExists(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("account id already taken: %w", domain.ErrConflict)
	}
	taken, err = s.resolver.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	count, err := s.subs.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxActiveSubAccounts {
		return nil, fmt.Errorf("sub-account limit of %d reached: %w", domain.MaxActiveSubAccounts, domain.ErrConflict)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	sub := &domain.SubAccount{
		AccountID:     req.AccountID,
		OwnerID:       ownerID,
		PasswordHash:  hash,
		Email:         req.Email,
		ManagerName:   req.ManagerName,
		Department:    req.Department,
		ContactNumber: req.ContactNumber,
		Memo:          req.Memo,
		State:         domain.StateActive,
		JoinedAt:      time.Now().UTC(),
	}
	if err := s.subs.Put(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]domain.SubAccount, error) {
	return s.subs.ListActiveByOwner(ctx, ownerID)
}

// Delete soft-deletes a sub-account. Only the owning primary account may do
// so; the check is by ownership, not by who is logged in as what.
func (s *service) Delete(ctx context.Context, ownerID, subAccountID string) error {
	sub, err := s.subs.GetActive(ctx, subAccountID)
	if err != nil {
		return err
	}
	if sub.OwnerID != ownerID {
		return fmt.Errorf("sub-account belongs to another owner: %w", domain.ErrForbidden)
	}
	return s.subs.SoftDelete(ctx, subAccountID, time.Now().UTC())
}
