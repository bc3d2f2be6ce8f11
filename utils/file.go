package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaveUpload writes an uploaded file into uploadDir under a sanitized,
// uuid-suffixed name so concurrent uploads of the same file never collide.
// Returns the destination path.
func SaveUpload(c *gin.Context, file *multipart.FileHeader, uploadDir string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v", err)
	}

	originalName := filepath.Base(file.Filename)
	ext := filepath.Ext(originalName)
	baseFileName := sanitizeFileName(strings.TrimSuffix(originalName, ext))
	destFileName := fmt.Sprintf("%s_%s%s", baseFileName, uuid.NewString(), ext)
	destPath := filepath.Join(uploadDir, destFileName)

	if err := c.SaveUploadedFile(file, destPath); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %v", err)
	}

	return destPath, nil
}

// sanitizeFileName keeps only characters that are safe in a filename.
func sanitizeFileName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	if sanitized == "" {
		sanitized = "upload"
	}
	return sanitized
}
