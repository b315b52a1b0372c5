package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/staHong/user-auth-account-system/internal/application/account"
	"github.com/staHong/user-auth-account-system/internal/application/verification"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAccountSvc struct{ mock.Mock }

func (m *mockAccountSvc) Register(ctx context.Context, req domain.RegisterAccountRequest, license, contract *account.FileInput) (*domain.PrimaryAccount, error) {
	args := m.Called(ctx, req, license, contract)
	if a, _ := args.Get(0).(*domain.PrimaryAccount); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountSvc) Login(ctx context.Context, accountID, plainPassword string) (*account.LoginResult, error) {
	args := m.Called(ctx, accountID, plainPassword)
	if r, _ := args.Get(0).(*account.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountSvc) FindID(ctx context.Context, corpRegNo, bizRegNo, email string) (account.FindIDOutcome, error) {
	args := m.Called(ctx, corpRegNo, bizRegNo, email)
	return args.Get(0).(account.FindIDOutcome), args.Error(1)
}
func (m *mockAccountSvc) ResetPassword(ctx context.Context, accountID, email, newPassword string) error {
	return m.Called(ctx, accountID, email, newPassword).Error(0)
}
func (m *mockAccountSvc) LookupEmailByID(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}
func (m *mockAccountSvc) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountSvc) Update(ctx context.Context, accountID string, req domain.UpdateAccountRequest) (*domain.PrimaryAccount, error) {
	args := m.Called(ctx, accountID, req)
	if a, _ := args.Get(0).(*domain.PrimaryAccount); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountSvc) Withdraw(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) SendCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockVerificationSvc) CheckAndSendCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockVerificationSvc) VerifyCode(ctx context.Context, email, code string) (verification.VerifyResult, error) {
	args := m.Called(ctx, email, code)
	return args.Get(0).(verification.VerifyResult), args.Error(1)
}

func postJSON(target string, v interface{}) *http.Request {
	body, _ := json.Marshal(v)
	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
}

// --- Login ---

func TestLogin_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAccountSvc{}, nil)
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Login(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAccountSvc{}, nil)
	rr := httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", map[string]string{"id": "corp01"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Login", mock.Anything, "corp01", "bad").Return(nil, domain.ErrInvalidCredential)
	h := NewAuthHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", map[string]string{"id": "corp01", "password": "bad"}))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_UnknownID(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Login", mock.Anything, "ghost", "pw").Return(nil, domain.ErrNotFound)
	h := NewAuthHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", map[string]string{"id": "ghost", "password": "pw"}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogin_HappyPath(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Login", mock.Anything, "corp01", "pw").Return(&account.LoginResult{
		Token:   "signed-token",
		Account: &domain.Account{Kind: domain.KindPrimary, Primary: &domain.PrimaryAccount{AccountID: "corp01"}},
	}, nil)
	h := NewAuthHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", map[string]string{"id": "corp01", "password": "pw"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, domain.KindPrimary, resp.Kind)
	svc.AssertExpectations(t)
}

// --- FindID ---

func TestFindID_ReturnsOutcome(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("FindID", mock.Anything, "110111-0000111", "120-88-12345", "a@b.com").
		Return(account.FindIDCorpRegNoMismatch, nil)
	h := NewAuthHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.FindID(rr, postJSON("/v1/auth/find-id", map[string]string{
		"corp_reg_no": "110111-0000111", "biz_reg_no": "120-88-12345", "email": "a@b.com",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp ResultEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, string(account.FindIDCorpRegNoMismatch), resp.Result)
}

func TestFindID_RejectsMalformedRegNo(t *testing.T) {
	h := NewAuthHandler(&mockAccountSvc{}, nil)

	rr := httptest.NewRecorder()
	h.FindID(rr, postJSON("/v1/auth/find-id", map[string]string{
		"corp_reg_no": "not a number", "biz_reg_no": "120-88-12345", "email": "a@b.com",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- RequestRecoveryCode ---

func TestRequestRecoveryCode_HappyPath(t *testing.T) {
	accSvc := &mockAccountSvc{}
	verSvc := &mockVerificationSvc{}
	accSvc.On("LookupEmailByID", mock.Anything, "corp01").Return("corp@example.com", nil)
	verSvc.On("CheckAndSendCode", mock.Anything, "corp@example.com").Return(nil)
	h := NewAuthHandler(accSvc, verSvc)

	rr := httptest.NewRecorder()
	h.RequestRecoveryCode(rr, postJSON("/v1/auth/recovery-code", map[string]string{"id": "corp01"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "corp@example.com", resp["email"])
	verSvc.AssertExpectations(t)
}

func TestRequestRecoveryCode_UnknownID(t *testing.T) {
	accSvc := &mockAccountSvc{}
	accSvc.On("LookupEmailByID", mock.Anything, "ghost").Return("", domain.ErrNotFound)
	h := NewAuthHandler(accSvc, &mockVerificationSvc{})

	rr := httptest.NewRecorder()
	h.RequestRecoveryCode(rr, postJSON("/v1/auth/recovery-code", map[string]string{"id": "ghost"}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- ResetPassword ---

func TestResetPassword_HappyPath(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("ResetPassword", mock.Anything, "corp01", "corp@example.com", "new-password").Return(nil)
	h := NewAuthHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.ResetPassword(rr, postJSON("/v1/auth/reset-password", map[string]string{
		"id": "corp01", "email": "corp@example.com", "new_password": "new-password",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestResetPassword_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&mockAccountSvc{}, nil)

	rr := httptest.NewRecorder()
	h.ResetPassword(rr, postJSON("/v1/auth/reset-password", map[string]string{
		"id": "corp01", "email": "corp@example.com", "new_password": "short",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
