// Package images stores cover images of landmarks.
//
// Images are identified by keys like "landmarks/<uuid>.jpg", which are stored in the database.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// prefix of keys
const Prefix = "landmarks"

var ErrInvalidKey = errors.New("invalid image key")

// Store is a storage of images.
type Store interface {
	// Save an image as key.
	//
	// # Args
	//
	// - ctx
	//
	// - key: key of the image. Use NewKey to create it.
	//
	// - r: content.
	//
	// - size: size of the content in bytes. -1 if unknown.
	//
	// - contentType: MIME type of the content.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete the image. Deleting missing image is not an error.
	Delete(ctx context.Context, key string) error

	// URL of the image.
	//
	// It can be a path (like "/media/landmarks/xxx.jpg") to be resolved
	// with the origin of the request.
	URL(key string) string
}

// extensions for content types
var extensions = map[string]string{
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// NewKey creates a fresh key for an image of contentType.
//
// The extension is decided by contentType only, so that the stored file is served as an image.
// Unknown content types get no extension.
func NewKey(contentType string) string {
	return path.Join(Prefix, uuid.NewString()+extensions[contentType])
}

// NamedKey creates a key with given name. For seeding.
//
// For example, NamedKey("Eiffel Tower", ".jpg") is "landmarks/eiffel_tower.jpg".
func NamedKey(name string, ext string) string {
	return path.Join(Prefix, strings.ReplaceAll(strings.ToLower(name), " ", "_")+ext)
}

// validateKey rejects keys escaping the prefix.
func validateKey(key string) error {
	clean := path.Clean(key)
	if clean != key || !strings.HasPrefix(clean, Prefix+"/") || strings.Contains(clean, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
