package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	fileapp "github.com/staHong/user-auth-account-system/internal/application/file"
	s3infra "github.com/staHong/user-auth-account-system/internal/infrastructure/s3"
)

// FileHandler serves board attachments.
type FileHandler struct {
	svc fileapp.Service
}

func NewFileHandler(svc fileapp.Service) *FileHandler { return &FileHandler{svc: svc} }

// Download streams an attachment with its original filename.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, f, err := h.svc.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", s3infra.ContentTypeFor(f.OriginalName))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.OriginalName))
	_, _ = io.Copy(w, rc)
}

// ListByBoard returns attachment metadata for a board posting.
func (h *FileHandler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.ListByBoard(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}
