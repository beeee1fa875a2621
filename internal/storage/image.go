// Package storage persists uploaded post images and validates them before they are written.
package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"socialfeed/internal/models"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

var allowedExt = regexp.MustCompile(`^\.(jpeg|jpg|png|gif|webp)$`)

// Image is an upload that passed validation.
type Image struct {
	Ext  string
	Data []byte
}

// ValidateImage checks size, extension, sniffed content type and that the
// bytes decode as an image. It returns the canonical extension for storage.
func ValidateImage(filename string, data []byte, maxBytes int64) (*Image, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(data)) > maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt.MatchString(ext) {
		return nil, models.NewValidationError("Only image files are allowed")
	}
	if !isAllowedImageMIME(http.DetectContentType(data)) {
		return nil, models.NewValidationError("Only image files are allowed")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if format == "jpeg" && ext == ".jpg" {
		format = "jpg"
	}
	return &Image{Ext: "." + format, Data: data}, nil
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.TrimSpace(strings.Split(contentType, ";")[0]) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
