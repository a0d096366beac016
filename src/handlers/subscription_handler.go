// backend/src/handlers/subscription_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/services"
	"github.com/username/foliolens/backend/src/utils"
)

// SubscriptionHandler returns the recurring charges detected in a bank
// upload. Detection happens at upload time; this just serves the stored
// candidates.
type SubscriptionHandler struct {
	importService services.ImportService
}

func NewSubscriptionHandler(service services.ImportService) *SubscriptionHandler {
	return &SubscriptionHandler{importService: service}
}

func (h *SubscriptionHandler) HandleSubscriptions(w http.ResponseWriter, r *http.Request) {
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

	utils.SendJSON(w, upload.Subscriptions, http.StatusOK)
}
