// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/media"
)

// maxUploadMemory is how much of a multipart form is kept in memory
const maxUploadMemory = 32 << 20

// UploadHandler handles product image uploads
type UploadHandler struct {
	uploader *media.Uploader
	logger   *logrus.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader *media.Uploader, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// UploadImages handles POST /admin/uploads. Every file in the "images"
// field is sent to the media CDN; the URLs of the ones that made it are
// returned for the product form.
func (h *UploadHandler) UploadImages(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to parse multipart form",
			"details": err.Error(),
		})
		return
	}

	headers := c.Request.MultipartForm.File["images"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No images provided",
		})
		return
	}

	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Failed to read uploaded file",
				"details": err.Error(),
			})
			closeAll(files)
			return
		}
		files = append(files, media.File{Name: header.Filename, Reader: file})
	}
	defer closeAll(files)

	result := h.uploader.UploadAll(c.Request.Context(), files)
	if result.Summary.SuccessCount == 0 {
		h.logger.WithField("failed", result.Summary.FailureCount).Warn("Image upload failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Image upload failed.",
			"data":  result,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Images uploaded successfully",
		"data":    result,
	})
}

func closeAll(files []media.File) {
	for _, f := range files {
		if closer, ok := f.Reader.(multipart.File); ok {
			closer.Close()
		}
	}
}
