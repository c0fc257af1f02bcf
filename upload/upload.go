// Package upload stores post images under collision-free names.
package upload

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inkwell/models"
)

const uploadDir = "./public/uploads"

// SaveImage stores the uploaded file from the given form field and returns
// its public path. A request without a file is not an error; it yields the
// "no image" sentinel.
func SaveImage(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return models.NoImage, nil
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, name)); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}
