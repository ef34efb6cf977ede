package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/eximflow/backend/src/config"
	"github.com/username/eximflow/backend/src/logger"
	"github.com/username/eximflow/backend/src/models"
	"github.com/username/eximflow/backend/src/security/validation"
	"github.com/username/eximflow/backend/src/services"
	"github.com/username/eximflow/backend/src/utils"
)

// UploadHandler exposes the four-step upload wizard: stage a file, sync
// entities against the master, preview the financial transform, commit.
type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: service}
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	dataType, err := models.ParseDataType(r.FormValue("data_type"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	format := uploadFormat(fileHeader.Filename)
	if format == "" {
		utils.SendJSONError(w, "Unsupported file extension. Upload .xlsx or .csv.", http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file, format)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("Processing upload request", "filename", fileHeader.Filename, "dataType", dataType, "detectedType", detectedContentType)

	result, err := h.uploadService.StartUpload(r.Context(), file, format, dataType)
	if err != nil {
		h.sendStageError(w, err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

func (h *UploadHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.uploadService.SyncEntities(r.Context(), r.PathValue("id"))
	if err != nil {
		h.sendStageError(w, err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

func (h *UploadHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	result, err := h.uploadService.PreviewTransform(r.Context(), r.PathValue("id"))
	if err != nil {
		h.sendStageError(w, err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

func (h *UploadHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	result, err := h.uploadService.Commit(r.Context(), r.PathValue("id"))
	if err != nil {
		h.sendStageError(w, err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

func (h *UploadHandler) sendStageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUploadNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrStageOutOfOrder):
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrParsingFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrReconcileFailed), errors.Is(err, services.ErrTransformFailed), errors.Is(err, services.ErrCommitFailed):
		logger.L.Error("Upload pipeline stage failed", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
	default:
		logger.L.Error("Internal error processing upload", "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the upload.", http.StatusInternalServerError)
	}
}

func uploadFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return "xlsx"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}
