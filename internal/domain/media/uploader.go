// internal/domain/media/uploader.go
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
)

// AuthParams are the short-lived upload credentials issued by the remote API
type AuthParams struct {
	Signature string `json:"signature"`
	Expire    int64  `json:"expire"`
	Token     string `json:"token"`
}

// Authenticator fetches upload credentials
type Authenticator interface {
	ImageKitAuth(ctx context.Context) (*AuthParams, error)
}

// UploadedFile is a file stored on the media CDN
type UploadedFile struct {
	FileID       string `json:"fileId"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// File is one file of a multi-file upload
type File struct {
	Name   string
	Reader io.Reader
}

// FailedUpload represents a failed upload
type FailedUpload struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadSummary represents upload summary
type UploadSummary struct {
	TotalFiles   int `json:"total_files"`
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}

// BulkUploadResult represents bulk upload result
type BulkUploadResult struct {
	Uploaded []UploadedFile `json:"uploaded"`
	URLs     []string       `json:"urls"`
	Failed   []FailedUpload `json:"failed"`
	Summary  UploadSummary  `json:"summary"`
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// Uploader sends product images to the media CDN
type Uploader struct {
	auth       Authenticator
	publicKey  string
	uploadURL  string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewUploader creates a new uploader
func NewUploader(auth Authenticator, cfg *config.Config, httpClient *http.Client, logger *logrus.Logger) *Uploader {
	return &Uploader{
		auth:       auth,
		publicKey:  cfg.ImageKit.PublicKey,
		uploadURL:  cfg.ImageKit.UploadURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Upload stores one image and returns it. Fresh credentials are requested
// for every file.
func (u *Uploader) Upload(ctx context.Context, fileName string, r io.Reader) (*UploadedFile, error) {
	if err := validateImageFile(fileName); err != nil {
		return nil, err
	}

	params, err := u.auth.ImageKitAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get upload credentials: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fields := map[string]string{
		"fileName":          fileName,
		"publicKey":         u.publicKey,
		"signature":         params.Signature,
		"expire":            strconv.FormatInt(params.Expire, 10),
		"token":             params.Token,
		"useUniqueFileName": "true",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("upload rejected: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("upload rejected: status %d", resp.StatusCode)
	}

	var uploaded UploadedFile
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}
	if uploaded.URL == "" {
		return nil, fmt.Errorf("upload response has no url")
	}

	u.logger.WithFields(logrus.Fields{
		"file_id": uploaded.FileID,
		"name":    uploaded.Name,
	}).Info("Image uploaded")

	return &uploaded, nil
}

// UploadAll uploads files one after another, collecting the URLs of the
// ones that succeeded
func (u *Uploader) UploadAll(ctx context.Context, files []File) *BulkUploadResult {
	result := &BulkUploadResult{
		Uploaded: []UploadedFile{},
		URLs:     []string{},
		Failed:   []FailedUpload{},
		Summary: UploadSummary{
			TotalFiles: len(files),
		},
	}

	for _, file := range files {
		uploaded, err := u.Upload(ctx, file.Name, file.Reader)
		if err != nil {
			result.Failed = append(result.Failed, FailedUpload{
				Filename: file.Name,
				Error:    err.Error(),
			})
			result.Summary.FailureCount++
			continue
		}
		result.Uploaded = append(result.Uploaded, *uploaded)
		result.URLs = append(result.URLs, uploaded.URL)
		result.Summary.SuccessCount++
	}

	return result
}

func validateImageFile(fileName string) error {
	if strings.TrimSpace(fileName) == "" {
		return fmt.Errorf("file name is required")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported image type %q", ext)
	}
	return nil
}
