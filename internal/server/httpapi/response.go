package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/models"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DocumentResponse is the JSON shape of a document record. IV and auth tag
// are returned as stored; they are useless without the key material.
type DocumentResponse struct {
	ID                  string `json:"id"`
	OwnerRef            string `json:"owner_ref"`
	Kind                string `json:"kind"`
	FileName            string `json:"file_name"`
	StoragePath         string `json:"storage_path"`
	ContentType         string `json:"content_type"`
	IV                  string `json:"iv"`
	AuthTag             string `json:"auth_tag"`
	EncryptionAlgorithm string `json:"encryption_algorithm"`
	KeyID               string `json:"key_id"`
	SHA256              string `json:"sha256_hash"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func toDocumentResponse(rec *models.DocumentRecord) DocumentResponse {
	return DocumentResponse{
		ID:                  rec.ID,
		OwnerRef:            rec.OwnerRef,
		Kind:                rec.Kind,
		FileName:            rec.FileName,
		StoragePath:         rec.StoragePath,
		ContentType:         rec.ContentType,
		IV:                  rec.IV,
		AuthTag:             rec.AuthTag,
		EncryptionAlgorithm: rec.EncryptionAlgorithm,
		KeyID:               rec.KeyID,
		SHA256:              rec.SHA256,
		CreatedAt:           rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           rec.UpdatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeError maps the vault's sentinel errors to HTTP statuses. Internal
// details (configuration state in particular) never reach the response body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, common.ErrInvalidToken):
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
	case errors.Is(err, common.ErrUnauthorized):
		writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", "forbidden")
	case errors.Is(err, common.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, common.ErrDecryption):
		writeErrorResponse(w, http.StatusUnprocessableEntity, "CANNOT_DECRYPT", "cannot decrypt")
	case errors.Is(err, common.ErrConfiguration):
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	case errors.Is(err, common.ErrPersistence):
		writeErrorResponse(w, http.StatusBadGateway, "STORAGE_ERROR", "storage error")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
