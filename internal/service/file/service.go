package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/upload"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	photoDir = "invitations/photos"

	// Photos larger than this are re-encoded with a bounded longest edge.
	optimizeThreshold = 1 << 20
	maxPhotoEdge      = 2048
	jpegQuality       = 85
)

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type FileService interface {
	// UploadInvitationPhoto stores an image and returns its public URL.
	UploadInvitationPhoto(ctx context.Context, file io.Reader, filename, contentType string, size int64) (upload.UploadResponse, error)

	// DeletePhoto removes a photo previously returned by
	// UploadInvitationPhoto. Other URLs are left alone.
	DeletePhoto(ctx context.Context, photoURL string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadInvitationPhoto implements FileService.
func (s *fileServiceImpl) UploadInvitationPhoto(ctx context.Context, file io.Reader, filename, contentType string, size int64) (upload.UploadResponse, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !strings.HasPrefix(contentType, "image/") {
		return upload.UploadResponse{}, upload.ErrInvalidFileType
	}
	if size > upload.MaxFileSize {
		return upload.UploadResponse{}, upload.ErrFileTooLarge
	}

	// Declared sizes can lie; read one byte past the limit to detect that
	buffer, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
	if err != nil {
		return upload.UploadResponse{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(buffer) == 0 {
		return upload.UploadResponse{}, upload.ErrEmptyFile
	}
	if len(buffer) > upload.MaxFileSize {
		return upload.UploadResponse{}, upload.ErrFileTooLarge
	}

	if len(buffer) > optimizeThreshold {
		optimized, err := optimizeImage(buffer, contentType)
		if err != nil {
			slog.Warn("Keeping original photo, optimization failed", "filename", filename, "error", err)
		} else if len(optimized) < len(buffer) {
			buffer = optimized
		}
	}

	ext, ok := extensionsByType[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.New().String(), ext)
	objectPath := path.Join(photoDir, name)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), objectPath, contentType)
	if err != nil {
		return upload.UploadResponse{}, fmt.Errorf("failed to upload photo: %w", err)
	}

	url, err := s.storage.GetURL(ctx, uploadedPath, 0)
	if err != nil {
		return upload.UploadResponse{}, fmt.Errorf("failed to resolve photo url: %w", err)
	}

	return upload.UploadResponse{
		URL:      url,
		Filename: name,
		Size:     int64(len(buffer)),
	}, nil
}

// DeletePhoto implements FileService.
func (s *fileServiceImpl) DeletePhoto(ctx context.Context, photoURL string) error {
	key, ok := s.storage.PathFromURL(strings.TrimSpace(photoURL))
	if !ok || !strings.HasPrefix(key, photoDir+"/") {
		slog.Debug("Photo not owned by storage, skipping delete", "url", photoURL)
		return nil
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", key, err)
	}
	return nil
}

// optimizeImage downscales JPEG and PNG photos so the longest edge is at
// most maxPhotoEdge, keeping the original encoding. Other formats pass
// through untouched.
func optimizeImage(buffer []byte, contentType string) ([]byte, error) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxPhotoEdge || height > maxPhotoEdge {
		if width >= height {
			height = height * maxPhotoEdge / width
			width = maxPhotoEdge
		} else {
			width = width * maxPhotoEdge / height
			height = maxPhotoEdge
		}
		img = resizeImage(img, max(width, 1), max(height, 1))
	}

	buf := new(bytes.Buffer)
	if contentType == "image/png" {
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	} else {
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
