// Package httpapi exposes the document vault over HTTP. Every route is
// bearer-token authenticated; tokens are issued by the main Rentadoor
// backend and share its signing secret.
package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Monterolautaro/rentadoor-docvault/internal/logging"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/services"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 32 << 20

// DocumentHandler serves the vault's document routes.
type DocumentHandler struct {
	service *services.DocumentService
	logger  logging.Logger
}

func NewDocumentHandler(service *services.DocumentService, logger logging.Logger) *DocumentHandler {
	return &DocumentHandler{service: service, logger: logger}
}

// Upload accepts a multipart form with a "file" part and a "kind" field.
// The owner is always the token subject.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_TOKEN", "missing claims")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ARGUMENT", "missing file part")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ARGUMENT", "unreadable file part")
		return
	}

	kind := r.FormValue("kind")
	contentType := header.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	} else {
		contentType = ""
	}

	rec, err := h.service.Upload(r.Context(), claims.UserID, kind, header.Filename, contentType, content)
	if err != nil {
		h.logger.Error(r.Context(), "upload failed", "owner", claims.UserID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentResponse(rec))
}

// Get returns document metadata.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_TOKEN", "missing claims")
		return
	}

	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !claims.Admin && rec.OwnerRef != claims.UserID {
		writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", "forbidden")
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(rec))
}

// Content streams the decrypted document back to its owner.
func (h *DocumentHandler) Content(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_TOKEN", "missing claims")
		return
	}

	rec, plaintext, err := h.service.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error(r.Context(), "download failed", "id", chi.URLParam(r, "id"), "error", err)
		writeError(w, err)
		return
	}
	if !claims.Admin && rec.OwnerRef != claims.UserID {
		writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", "forbidden")
		return
	}

	w.Header().Set("Content-Type", rec.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(plaintext)
}

// List returns the caller's documents. "?all=true" lists every owner's
// documents and requires the admin claim; admins may also scope with
// "?owner_ref=".
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_TOKEN", "missing claims")
		return
	}

	ownerRef := claims.UserID
	switch {
	case r.URL.Query().Get("all") == "true":
		if !claims.Admin {
			writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", "admin required for unscoped listing")
			return
		}
		ownerRef = ""
	case r.URL.Query().Get("owner_ref") != "":
		if !claims.Admin {
			writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", "admin required to list other owners")
			return
		}
		ownerRef = r.URL.Query().Get("owner_ref")
	}

	recs, err := h.service.List(r.Context(), ownerRef)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]DocumentResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDocumentResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}
