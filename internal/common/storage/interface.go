package storage

import (
	"context"
	"mime"
	"path"
	"strings"
)

// BlobStorage stores binary payloads in named containers and hands back a
// locator (URL) that is persisted alongside the owning record.
type BlobStorage interface {
	// SaveFile writes content under a fresh name with the given extension
	// (".jpg") in container and returns its locator.
	SaveFile(ctx context.Context, content []byte, extension, container string) (string, error)

	// RemoveFile deletes the blob addressed by locator. Missing blobs are not an error.
	RemoveFile(ctx context.Context, locator, container string) error

	// EditFile replaces the blob at locator: the old blob is removed first,
	// then content is saved under a new name whose locator is returned.
	EditFile(ctx context.Context, content []byte, extension, container, locator string) (string, error)
}

// BlobReader is implemented by drivers whose blobs the API serves itself.
// Drivers without it (MinIO) hand out locators clients fetch directly.
type BlobReader interface {
	Read(ctx context.Context, container, name string) ([]byte, string, error)
}

// blobName extracts the object name from a locator such as
// "http://host/teams/3f2a.jpg" or "file:///data/teams/3f2a.jpg".
func blobName(locator string) string {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return ""
	}
	if idx := strings.IndexAny(locator, "?#"); idx != -1 {
		locator = locator[:idx]
	}
	name := path.Base(locator)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func normalizeExtension(extension string) string {
	extension = strings.TrimSpace(extension)
	if extension == "" {
		return ""
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return strings.ToLower(extension)
}

func contentType(extension string) string {
	if ct := mime.TypeByExtension(extension); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
