package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPrimaryStore struct{ mock.Mock }

func (m *mockPrimaryStore) GetActive(ctx context.Context, accountID string) (*domain.PrimaryAccount, error) {
	args := m.Called(ctx, accountID)
	if a, _ := args.Get(0).(*domain.PrimaryAccount); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPrimaryStore) GetActiveByEmail(ctx context.Context, email string) (*domain.PrimaryAccount, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.PrimaryAccount); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSubStore struct{ mock.Mock }

func (m *mockSubStore) GetActive(ctx context.Context, accountID string) (*domain.SubAccount, error) {
	args := m.Called(ctx, accountID)
	if s, _ := args.Get(0).(*domain.SubAccount); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubStore) GetActiveByEmail(ctx context.Context, email string) (*domain.SubAccount, error) {
	args := m.Called(ctx, email)
	if s, _ := args.Get(0).(*domain.SubAccount); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func newResolver(ps *mockPrimaryStore, ss *mockSubStore) Resolver {
	return NewResolver(ResolverDeps{AccountRepo: ps, SubAccountRepo: ss})
}

func TestResolve_PrimaryWins(t *testing.T) {
	ps := &mockPrimaryStore{}
	ss := &mockSubStore{}
	ps.On("GetActive", mock.Anything, "corp01").Return(&domain.PrimaryAccount{AccountID: "corp01"}, nil)

	a, err := newResolver(ps, ss).Resolve(context.Background(), "corp01")

	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, domain.KindPrimary, a.Kind)
	assert.Equal(t, "corp01", a.ID())
	ss.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything)
}

func TestResolve_FallsBackToSub(t *testing.T) {
	ps := &mockPrimaryStore{}
	ss := &mockSubStore{}
	ps.On("GetActive", mock.Anything, "sub01").Return(nil, domain.ErrNotFound)
	ss.On("GetActive", mock.Anything, "sub01").Return(&domain.SubAccount{AccountID: "sub01", OwnerID: "corp01"}, nil)

	a, err := newResolver(ps, ss).Resolve(context.Background(), "sub01")

	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, domain.KindDelegated, a.Kind)
	assert.Equal(t, "sub01", a.ID())
}

func TestResolve_AbsenceIsNotAnError(t *testing.T) {
	ps := &mockPrimaryStore{}
	ss := &mockSubStore{}
	ps.On("GetActive", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	ss.On("GetActive", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	a, err := newResolver(ps, ss).Resolve(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestResolve_InfraErrorPropagates(t *testing.T) {
	ps := &mockPrimaryStore{}
	ss := &mockSubStore{}
	boom := errors.New("dynamo unavailable")
	ps.On("GetActive", mock.Anything, "corp01").Return(nil, boom)

	_, err := newResolver(ps, ss).Resolve(context.Background(), "corp01")

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	ss.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything)
}

func TestResolveByEmail_SubNamespace(t *testing.T) {
	ps := &mockPrimaryStore{}
	ss := &mockSubStore{}
	ps.On("GetActiveByEmail", mock.Anything, "sub@corp.com").Return(nil, domain.ErrNotFound)
	ss.On("GetActiveByEmail", mock.Anything, "sub@corp.com").Return(&domain.SubAccount{AccountID: "sub01"}, nil)

	a, err := newResolver(ps, ss).ResolveByEmail(context.Background(), "sub@corp.com")

	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, domain.KindDelegated, a.Kind)
}

func TestIDExists(t *testing.T) {
	ps := &mockPrimaryStore{}
	ss := &mockSubStore{}
	ps.On("GetActive", mock.Anything, "taken").Return(&domain.PrimaryAccount{AccountID: "taken"}, nil)
	ps.On("GetActive", mock.Anything, "free").Return(nil, domain.ErrNotFound)
	ss.On("GetActive", mock.Anything, "free").Return(nil, domain.ErrNotFound)

	r := newResolver(ps, ss)

	exists, err := r.IDExists(context.Background(), "taken")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.IDExists(context.Background(), "free")
	require.NoError(t, err)
	assert.False(t, exists)
}
