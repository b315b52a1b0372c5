package trend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/staHong/user-auth-account-system/internal/application/file"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTrendStore struct{ mock.Mock }

func (m *mockTrendStore) Put(ctx context.Context, t *domain.RegulatoryTrend) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTrendStore) Get(ctx context.Context, trendID string) (*domain.RegulatoryTrend, error) {
	args := m.Called(ctx, trendID)
	if t, _ := args.Get(0).(*domain.RegulatoryTrend); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTrendStore) ScanFiltered(ctx context.Context, source, title string) ([]domain.RegulatoryTrend, error) {
	args := m.Called(ctx, source, title)
	if ts, _ := args.Get(0).([]domain.RegulatoryTrend); ts != nil {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTrendStore) PrevNext(ctx context.Context, trendID string) (*domain.RegulatoryTrend, *domain.RegulatoryTrend, error) {
	args := m.Called(ctx, trendID)
	prev, _ := args.Get(0).(*domain.RegulatoryTrend)
	next, _ := args.Get(1).(*domain.RegulatoryTrend)
	return prev, next, args.Error(2)
}
func (m *mockTrendStore) HardDelete(ctx context.Context, trendID string) error {
	return m.Called(ctx, trendID).Error(0)
}

type mockAttachments struct{ mock.Mock }

func (m *mockAttachments) Attach(ctx context.Context, boardRefID string, uploads []file.Upload) ([]domain.FileUpload, error) {
	args := m.Called(ctx, boardRefID, uploads)
	if fs, _ := args.Get(0).([]domain.FileUpload); fs != nil {
		return fs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAttachments) ListByBoard(ctx context.Context, boardRefID string) ([]domain.FileUpload, error) {
	args := m.Called(ctx, boardRefID)
	if fs, _ := args.Get(0).([]domain.FileUpload); fs != nil {
		return fs, args.Error(1)
	}
	return []domain.FileUpload{}, args.Error(1)
}
func (m *mockAttachments) DeleteByBoard(ctx context.Context, boardRefID string) error {
	return m.Called(ctx, boardRefID).Error(0)
}

func newSvc(ts *mockTrendStore, at *mockAttachments) Service {
	return NewService(ServiceDeps{TrendRepo: ts, Attachments: at})
}

func createReq() domain.CreateTrendRequest {
	return domain.CreateTrendRequest{
		SourceName: "Ministry of Environment",
		Title:      "Amended disposal rules",
		Content:    "Effective next quarter.",
	}
}

func TestCreate_WithoutAttachments(t *testing.T) {
	ts := &mockTrendStore{}
	ts.On("Put", mock.Anything, mock.AnythingOfType("*domain.RegulatoryTrend")).Return(nil)

	created, err := newSvc(ts, nil).Create(context.Background(), createReq(), nil)

	require.NoError(t, err)
	assert.NotEmpty(t, created.TrendID)
	assert.Equal(t, "Amended disposal rules", created.Title)
	ts.AssertExpectations(t)
}

func TestCreate_RejectsBadUploadBeforeAnyWrite(t *testing.T) {
	ts := &mockTrendStore{}

	_, err := newSvc(ts, nil).Create(context.Background(), createReq(), []file.Upload{
		{Name: "malware.exe", Size: 10, Content: strings.NewReader("x")},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	ts.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_AttachFailureRemovesPosting(t *testing.T) {
	ts := &mockTrendStore{}
	at := &mockAttachments{}
	ts.On("Put", mock.Anything, mock.Anything).Return(nil)
	at.On("Attach", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))
	ts.On("HardDelete", mock.Anything, mock.Anything).Return(nil)

	_, err := newSvc(ts, at).Create(context.Background(), createReq(), []file.Upload{
		{Name: "notice.pdf", Size: 10, Content: strings.NewReader("x")},
	})

	require.Error(t, err)
	ts.AssertCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

func TestGet_IncludesFilesAndNeighbours(t *testing.T) {
	ts := &mockTrendStore{}
	at := &mockAttachments{}
	ts.On("Get", mock.Anything, "t2").Return(&domain.RegulatoryTrend{TrendID: "t2"}, nil)
	at.On("ListByBoard", mock.Anything, "t2").Return([]domain.FileUpload{{FileID: "f1"}}, nil)
	ts.On("PrevNext", mock.Anything, "t2").Return(
		&domain.RegulatoryTrend{TrendID: "t3"}, &domain.RegulatoryTrend{TrendID: "t1"}, nil)

	d, err := newSvc(ts, at).Get(context.Background(), "t2")

	require.NoError(t, err)
	assert.Len(t, d.Trend.AttachedFiles, 1)
	assert.Equal(t, "t3", d.Prev.TrendID)
	assert.Equal(t, "t1", d.Next.TrendID)
}

func TestList_Paginates(t *testing.T) {
	ts := &mockTrendStore{}
	all := []domain.RegulatoryTrend{{TrendID: "t5"}, {TrendID: "t4"}, {TrendID: "t3"}, {TrendID: "t2"}, {TrendID: "t1"}}
	ts.On("ScanFiltered", mock.Anything, "", "").Return(all, nil)

	items, total, err := newSvc(ts, nil).List(context.Background(), "", "", 2, 2)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "t3", items[0].TrendID)
	assert.Equal(t, "t2", items[1].TrendID)
}

func TestList_PageBeyondEnd(t *testing.T) {
	ts := &mockTrendStore{}
	ts.On("ScanFiltered", mock.Anything, "", "").Return([]domain.RegulatoryTrend{{TrendID: "t1"}}, nil)

	items, total, err := newSvc(ts, nil).List(context.Background(), "", "", 9, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, items)
}

func TestDelete_RemovesAttachmentsAndPosting(t *testing.T) {
	ts := &mockTrendStore{}
	at := &mockAttachments{}
	ts.On("Get", mock.Anything, "t1").Return(&domain.RegulatoryTrend{TrendID: "t1"}, nil)
	at.On("DeleteByBoard", mock.Anything, "t1").Return(nil)
	ts.On("HardDelete", mock.Anything, "t1").Return(nil)

	err := newSvc(ts, at).Delete(context.Background(), "t1")

	require.NoError(t, err)
	at.AssertExpectations(t)
	ts.AssertExpectations(t)
}

func TestDelete_UnknownTrend(t *testing.T) {
	ts := &mockTrendStore{}
	ts.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	err := newSvc(ts, nil).Delete(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
