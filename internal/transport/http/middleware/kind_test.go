package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/staHong/user-auth-account-system/internal/domain"
	jwtinfra "github.com/staHong/user-auth-account-system/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func requestWithKind(kind string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &jwtinfra.Claims{Kind: kind}
	return req.WithContext(WithClaims(req.Context(), claims))
}

func TestRequireKind_NoClaims(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RequireKind(domain.KindPrimary)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireKind_WrongKind(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireKind(domain.KindPrimary)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithKind(domain.KindDelegated))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireKind_AllowedKind(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireKind(domain.KindPrimary)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithKind(domain.KindPrimary))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireKind_MultipleKinds(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireKind(domain.KindPrimary, domain.KindDelegated)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithKind(domain.KindDelegated))
	assert.Equal(t, http.StatusOK, rr.Code)
}
