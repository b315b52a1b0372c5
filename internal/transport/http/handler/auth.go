package handler

import (
	"encoding/json"
	"net/http"

	"github.com/staHong/user-auth-account-system/internal/application/account"
	"github.com/staHong/user-auth-account-system/internal/application/verification"
	"github.com/staHong/user-auth-account-system/internal/pkg/validate"
)

// AuthHandler handles login and credential recovery endpoints.
type AuthHandler struct {
	accounts     account.Service
	verification verification.Service
}

func NewAuthHandler(accounts account.Service, verification verification.Service) *AuthHandler {
	return &AuthHandler{accounts: accounts, verification: verification}
}

type loginRequest struct {
	AccountID string `json:"id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.accounts.Login(r.Context(), req.AccountID, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Token: res.Token, Kind: res.Account.Kind})
}

type findIDRequest struct {
	CorpRegNo string `json:"corp_reg_no" validate:"required,regno"`
	BizRegNo  string `json:"biz_reg_no" validate:"required,regno"`
	Email     string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) FindID(w http.ResponseWriter, r *http.Request) {
	var req findIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome, err := h.accounts.FindID(r.Context(), req.CorpRegNo, req.BizRegNo, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Result: string(outcome)})
}

type recoveryCodeRequest struct {
	AccountID string `json:"id" validate:"required"`
}

// RequestRecoveryCode looks up the email on file for the account id and
// sends a verification code there. The email is echoed back so the client
// can tell the user where to look.
func (h *AuthHandler) RequestRecoveryCode(w http.ResponseWriter, r *http.Request) {
	var req recoveryCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email, err := h.accounts.LookupEmailByID(r.Context(), req.AccountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.verification.CheckAndSendCode(r.Context(), email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email})
}

type resetPasswordRequest struct {
	AccountID   string `json:"id" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.ResetPassword(r.Context(), req.AccountID, req.Email, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated"})
}
