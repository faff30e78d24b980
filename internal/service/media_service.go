package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"storefront/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFileType = errors.New("file type is not allowed")
	ErrUploadFailed        = errors.New("media upload failed")
)

// UploadResult is the public location of a stored image.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaService validates image uploads and forwards them to the CDN.
type MediaService interface {
	Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type mediaService struct {
	cld       *cloudinary.Cloudinary
	uploadCfg config.UploadConfig
	folder    string
}

// NewMediaService creates a MediaService backed by Cloudinary.
func NewMediaService(cfg config.CloudinaryConfig, uploadCfg config.UploadConfig) (MediaService, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &mediaService{
		cld:       cld,
		uploadCfg: uploadCfg,
		folder:    cfg.Folder,
	}, nil
}

// Upload validates the file locally, then forwards it with a size/quality
// transformation and returns the public URL.
func (s *mediaService) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	if int64(len(data)) > s.uploadCfg.MaxSizeBytes {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.extensionAllowed(ext) {
		return nil, ErrUnsupportedFileType
	}

	// Sniff the actual content; the extension alone is not trusted.
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return nil, ErrUnsupportedFileType
	}

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         s.folder,
		Transformation: "q_auto,w_1600,c_limit",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, result.Error.Message)
	}

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

// Delete removes a previously uploaded image by its public ID.
func (s *mediaService) Delete(ctx context.Context, publicID string) error {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("%w: %s", ErrUploadFailed, result.Result)
	}

	return nil
}

func (s *mediaService) extensionAllowed(ext string) bool {
	for _, allowed := range s.uploadCfg.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
