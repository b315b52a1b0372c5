package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staHong/user-auth-account-system/internal/application/inquiry"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/pkg/validate"
)

// InquiryHandler handles the inquiry board.
type InquiryHandler struct {
	svc inquiry.Service
}

func NewInquiryHandler(svc inquiry.Service) *InquiryHandler { return &InquiryHandler{svc: svc} }

func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListPublic serves the unauthenticated board view: only entries their
// authors marked public.
func (h *InquiryHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll serves the authenticated view with every entry.
func (h *InquiryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *InquiryHandler) list(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	page, perPage := parsePagination(r)
	filter := domain.InquiryFilter{
		UserName:    r.URL.Query().Get("user_name"),
		CompanyName: r.URL.Query().Get("company_name"),
		Email:       r.URL.Query().Get("email"),
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be in YYYY-MM-DD format")
			return
		}
		filter.StartDate = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end_date must be in YYYY-MM-DD format")
			return
		}
		// inclusive end of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	items, total, err := h.svc.List(r.Context(), filter, publicOnly, page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedEnvelope(page, perPage, total, items))
}

func (h *InquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required,max=4000"`
}

func (h *InquiryHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Answer(r.Context(), chi.URLParam(r, "id"), req.Answer); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "answer saved"})
}
