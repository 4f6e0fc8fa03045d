package storage

import (
	"path/filepath"
	"strings"

	"github.com/zourte2486/school-platform-test/internal/model"

	"github.com/google/uuid"
)

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// newObjectName builds a collision-free object name, preserving the
// image format extension so locators stay browser-resolvable.
func newObjectName(img model.ImagePayload) string {
	ext, ok := extByContentType[strings.ToLower(img.ContentType)]
	if !ok {
		ext = strings.ToLower(filepath.Ext(img.Filename))
	}
	return uuid.NewString() + ext
}
