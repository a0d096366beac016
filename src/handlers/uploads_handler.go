// backend/src/handlers/uploads_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/services"
	"github.com/username/foliolens/backend/src/utils"
)

// UploadsHandler serves the recent-uploads listing.
type UploadsHandler struct {
	importService services.ImportService
}

func NewUploadsHandler(service services.ImportService) *UploadsHandler {
	return &UploadsHandler{importService: service}
}

func (h *UploadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.importService.ListUploads()
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to list uploads", "error", err)
		utils.SendJSONError(w, "failed to list uploads", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, summaries, http.StatusOK)
}

func (h *UploadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.importService.GetUpload(id)
	if err != nil {
		if errors.Is(err, services.ErrUploadNotFound) {
			utils.SendJSONError(w, "upload not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to load upload", "uploadID", id, "error", err)
		utils.SendJSONError(w, "failed to load upload", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleBankStats returns the headline statement summary of a bank upload.
func (h *UploadsHandler) HandleBankStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := h.importService.GetUpload(id)
	if err != nil {
		if errors.Is(err, services.ErrUploadNotFound) {
			utils.SendJSONError(w, "upload not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to load upload", "uploadID", id, "error", err)
		utils.SendJSONError(w, "failed to load upload", http.StatusInternalServerError)
		return
	}

	if upload.BankStats == nil {
		utils.SendJSONError(w, "upload is not a bank statement", http.StatusBadRequest)
		return
	}
	utils.SendJSON(w, upload.BankStats, http.StatusOK)
}

func (h *UploadsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.importService.DeleteUpload(id); err != nil {
		if errors.Is(err, services.ErrUploadNotFound) {
			utils.SendJSONError(w, "upload not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to delete upload", "uploadID", id, "error", err)
		utils.SendJSONError(w, "failed to delete upload", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
