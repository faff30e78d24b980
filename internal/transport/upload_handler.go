package transport

import (
	"errors"
	"io"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DeleteUploadRequest identifies a previously uploaded image
type DeleteUploadRequest struct {
	PublicID string `json:"public_id" validate:"required"`
}

// UploadHandler handles image upload requests
type UploadHandler struct {
	mediaService service.MediaService
	maxSizeBytes int64
	logger       *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(mediaService service.MediaService, maxSizeBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		mediaService: mediaService,
		maxSizeBytes: maxSizeBytes,
		logger:       logger,
	}
}

// RegisterRoutes registers upload routes. All of them are admin-only.
func (h *UploadHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/upload", func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Upload)
		r.Delete("/delete", h.Delete)
	})
}

// Upload accepts a multipart form with a "file" field and stores the image
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// The limit leaves headroom for the multipart framing around the file.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeBytes+1024)

	if err := r.ParseMultipartForm(h.maxSizeBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, err := h.mediaService.Upload(r.Context(), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			middleware.RespondWithError(w, http.StatusBadRequest, "file exceeds the maximum allowed size")
		case errors.Is(err, service.ErrUnsupportedFileType):
			middleware.RespondWithError(w, http.StatusBadRequest, "file type is not allowed")
		default:
			h.logger.Error("Upload failed", zap.Error(err), zap.String("filename", header.Filename))
			middleware.RespondWithError(w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	h.logger.Info("Image uploaded",
		zap.String("filename", header.Filename),
		zap.String("public_id", result.PublicID))

	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

// Delete removes an uploaded image by its public ID
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteUploadRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.mediaService.Delete(r.Context(), req.PublicID); err != nil {
		h.logger.Error("Failed to delete image", zap.Error(err), zap.String("public_id", req.PublicID))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "image deleted"})
}
