package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/evermoment/evermoment-backend-go/internal/domain/upload"
	"github.com/evermoment/evermoment-backend-go/internal/handler/http/response"
	"github.com/evermoment/evermoment-backend-go/internal/service/file"
)

// Room for the multipart envelope around a maximum-size file.
const maxUploadRequestSize = upload.MaxFileSize + 1<<20

type UploadHandler interface {
	UploadPhoto(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	fileService file.FileService
}

func NewUploadHandler(fileService file.FileService) UploadHandler {
	return &uploadHandlerImpl{
		fileService: fileService,
	}
}

// UploadPhoto implements UploadHandler.
func (h *uploadHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestSize)
	if err := r.ParseMultipartForm(maxUploadRequestSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.HandleError(w, upload.ErrFileTooLarge)
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	photo, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "No file provided", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer photo.Close()

	result, err := h.fileService.UploadInvitationPhoto(
		r.Context(),
		photo,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
