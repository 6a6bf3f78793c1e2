package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"producthunt_back_end/internal/middleware"
)

const MaxImageSize = 5 << 20

// Uploader stocke une image et retourne son URL publique.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

type ImageHandler struct {
	uploader Uploader
	log      zerolog.Logger
}

// NewImageHandler : uploader peut être nil quand MinIO n'est pas configuré.
func NewImageHandler(uploader Uploader, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{uploader: uploader, log: log}
}

// UploadImage - POST /images (multipart, champ "image")
func (h *ImageHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "image storage is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize+1<<20)

	fileHeader, err := c.FormFile("image")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "image exceeds 5MB"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "image file is required"})
		return
	}
	if fileHeader.Size > MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "image exceeds 5MB"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file must be an image"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unreadable image file"})
		return
	}
	defer file.Close()

	log := middleware.LoggerFrom(c, h.log)
	url, err := h.uploader.Upload(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("❌ Erreur upload MinIO")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	log.Info().Str("url", url).Int64("size", fileHeader.Size).Msg("📷 Image uploadée")
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
