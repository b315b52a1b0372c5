package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	fileapp "github.com/staHong/user-auth-account-system/internal/application/file"
	"github.com/staHong/user-auth-account-system/internal/application/trend"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/pkg/validate"
)

const maxTrendFormMemory = 32 << 20

// TrendHandler handles the regulatory-trend board.
type TrendHandler struct {
	svc trend.Service
}

func NewTrendHandler(svc trend.Service) *TrendHandler { return &TrendHandler{svc: svc} }

// Create accepts a multipart form: a "payload" JSON part plus up to ten
// "files" parts.
func (h *TrendHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxTrendFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	var req domain.CreateTrendRequest
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload field")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var uploads []fileapp.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable file part")
				return
			}
			defer f.Close()
			uploads = append(uploads, fileapp.Upload{
				Name:    header.Filename,
				Size:    header.Size,
				Content: f,
			})
		}
	}

	created, err := h.svc.Create(r.Context(), req, uploads)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List serves the board: newest first, filterable by source name or title,
// paginated.
func (h *TrendHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	items, total, err := h.svc.List(r.Context(),
		r.URL.Query().Get("source"), r.URL.Query().Get("title"), page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedEnvelope(page, perPage, total, items))
}

// Get serves a posting with its attachments and prev/next neighbours.
func (h *TrendHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *TrendHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "trend deleted"})
}

func parsePagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 10
	}
	return
}
