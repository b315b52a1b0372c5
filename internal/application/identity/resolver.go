package identity

import (
	"context"
	"errors"

	"github.com/staHong/user-auth-account-system/internal/domain"
)

type primaryStore interface {
	GetActive(ctx context.Context, accountID string) (*domain.PrimaryAccount, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.PrimaryAccount, error)
}

type subStore interface {
	GetActive(ctx context.Context, accountID string) (*domain.SubAccount, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.SubAccount, error)
}

// Resolver answers "who is this id/email" across the shared namespace of
// primary and sub-account identities. Primary always wins: the sub-account
// table is consulted only after the primary lookup misses.
//
// Resolve and ResolveByEmail return (nil, nil) when no active record matches;
// absence is an answer here, not an error.
type Resolver interface {
	Resolve(ctx context.Context, accountID string) (*domain.Account, error)
	ResolveByEmail(ctx context.Context, email string) (*domain.Account, error)
	IDExists(ctx context.Context, accountID string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type resolver struct {
	accounts primaryStore
	subs     subStore
}

type ResolverDeps struct {
	AccountRepo    primaryStore
	SubAccountRepo subStore
}

func NewResolver(deps ResolverDeps) Resolver {
	return &resolver{accounts: deps.AccountRepo, subs: deps.SubAccountRepo}
}

func (r *resolver) Resolve(ctx context.Context, accountID string) (*domain.Account, error) {
	p, err := r.accounts.GetActive(ctx, accountID)
	if err == nil {
		return &domain.Account{Kind: domain.KindPrimary, Primary: p}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	s, err := r.subs.GetActive(ctx, accountID)
	if err == nil {
		return &domain.Account{Kind: domain.KindDelegated, Sub: s}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}

func (r *resolver) ResolveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	p, err := r.accounts.GetActiveByEmail(ctx, email)
	if err == nil {
		return &domain.Account{Kind: domain.KindPrimary, Primary: p}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	s, err := r.subs.GetActiveByEmail(ctx, email)
	if err == nil {
		return &domain.Account{Kind: domain.KindDelegated, Sub: s}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}

func (r *resolver) IDExists(ctx context.Context, accountID string) (bool, error) {
	a, err := r.Resolve(ctx, accountID)
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

func (r *resolver) EmailExists(ctx context.Context, email string) (bool, error) {
	a, err := r.ResolveByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return a != nil, nil
}
