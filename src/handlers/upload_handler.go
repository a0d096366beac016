// backend/src/handlers/upload_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/username/foliolens/backend/src/config"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/security/validation"
	"github.com/username/foliolens/backend/src/services"
	"github.com/username/foliolens/backend/src/utils"
)

type UploadHandler struct {
	importService services.ImportService
}

func NewUploadHandler(service services.ImportService) *UploadHandler {
	return &UploadHandler{
		importService: service,
	}
}

// HandleUpload accepts a multipart CSV upload, validates its content, and
// runs it through the import pipeline. An export whose header matches no
// known layout is a 422 the caller must act on, not a server error.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to parse upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctxLogger.Info("Processing upload request", "filename", fileHeader.Filename)

	result, err := h.importService.ProcessUpload(file, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownFormat):
			ctxLogger.Warn("Upload rejected: unknown format", "filename", fileHeader.Filename)
			utils.SendJSONError(w, "file does not match any supported export format", http.StatusUnprocessableEntity)
		case errors.Is(err, services.ErrParsingFailed):
			ctxLogger.Warn("Upload rejected: parse failure", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "file could not be parsed as delimited text", http.StatusUnprocessableEntity)
		default:
			ctxLogger.Error("Upload processing failed", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "failed to process upload", http.StatusInternalServerError)
		}
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}
