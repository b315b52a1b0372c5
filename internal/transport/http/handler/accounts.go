package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/staHong/user-auth-account-system/internal/application/account"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/pkg/validate"
	"github.com/staHong/user-auth-account-system/internal/transport/http/middleware"
)

const maxRegisterFormMemory = 32 << 20

type availabilityChecker interface {
	IDExists(ctx context.Context, accountID string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AccountHandler handles registration and my-page endpoints.
type AccountHandler struct {
	svc     account.Service
	checker availabilityChecker
}

func NewAccountHandler(svc account.Service, checker availabilityChecker) *AccountHandler {
	return &AccountHandler{svc: svc, checker: checker}
}

// CheckID reports whether an account id is still free. Uniqueness spans both
// the primary and sub-account namespaces.
func (h *AccountHandler) CheckID(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}
	taken, err := h.checker.IDExists(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": !taken})
}

// CheckEmail reports whether an email address is still free.
func (h *AccountHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}
	taken, err := h.checker.EmailExists(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": !taken})
}

// Register creates a primary account from a multipart form: a "payload" JSON
// part plus a mandatory "business_license" file and an optional "contract"
// file.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRegisterFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	var req domain.RegisterAccountRequest
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload field")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	license, err := formFileInput(r, "business_license")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing business_license file")
		return
	}
	defer license.close()

	contract, err := formFileInput(r, "contract")
	if err == nil {
		defer contract.close()
	}

	created, err := h.svc.Register(r.Context(), req, license.input(), contract.input())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Me returns the logged-in identity, primary or delegated.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	a, err := h.svc.Get(r.Context(), claims.AccountID())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if a.Kind == domain.KindPrimary {
		writeJSON(w, http.StatusOK, a.Primary)
		return
	}
	writeJSON(w, http.StatusOK, a.Sub)
}

// Update applies my-page changes. Only primary accounts reach this handler;
// the router guards it with RequireKind.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.svc.Update(r.Context(), claims.AccountID(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Withdraw closes the logged-in primary account and its sub-accounts.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Withdraw(r.Context(), claims.AccountID()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "account withdrawn"})
}

// formFile wraps a multipart file so handlers can close it and hand the
// stream to the service layer.
type formFile struct {
	in    account.FileInput
	close func()
}

func (f *formFile) input() *account.FileInput {
	if f == nil {
		return nil
	}
	return &f.in
}

func formFileInput(r *http.Request, field string) (*formFile, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	return &formFile{
		in:    account.FileInput{Name: header.Filename, Size: header.Size, Content: f},
		close: func() { _ = f.Close() },
	}, nil
}
