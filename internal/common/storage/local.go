package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// ErrBlobNotFound is returned by Read for unknown or malformed blob names.
var ErrBlobNotFound = errors.New("blob not found")

// LocalConfig configures the file system blob driver.
type LocalConfig struct {
	// BaseURL is an AFS URL or an absolute path, e.g. "file:///var/lib/fantasy/blobs".
	BaseURL string `yaml:"baseURL"`
	// PublicURL is where clients fetch blobs, e.g. "http://localhost:8080/blobs".
	// Locators are <PublicURL>/<container>/<name>; when empty they are AFS URLs.
	PublicURL string `yaml:"publicURL"`
}

// LocalStorage implements BlobStorage on any AFS-backed location,
// typically the local disk. Containers are subdirectories of BaseURL.
type LocalStorage struct {
	fs        afs.Service
	baseURL   string
	publicURL string
}

func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	base := normalizeBaseURL(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("local storage baseURL is required")
	}
	return &LocalStorage{
		fs:        afs.New(),
		baseURL:   base,
		publicURL: strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/"),
	}, nil
}

func normalizeBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	if strings.Contains(base, "://") {
		return base
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return "file://" + filepath.ToSlash(base)
}

func (s *LocalStorage) SaveFile(ctx context.Context, content []byte, extension, container string) (string, error) {
	if container == "" {
		return "", fmt.Errorf("container is required")
	}
	dir := url.Join(s.baseURL, container)
	exists, err := s.fs.Exists(ctx, dir)
	if err != nil {
		return "", fmt.Errorf("check container failed: %w", err)
	}
	if !exists {
		if err := s.fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return "", fmt.Errorf("create container failed: %w", err)
		}
	}

	name := uuid.NewString() + normalizeExtension(extension)
	dest := url.Join(dir, name)
	if err := s.fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewReader(content)); err != nil {
		return "", fmt.Errorf("upload blob failed: %w", err)
	}
	if s.publicURL == "" {
		return dest, nil
	}
	return s.publicURL + "/" + container + "/" + name, nil
}

func (s *LocalStorage) RemoveFile(ctx context.Context, locator, container string) error {
	name := blobName(locator)
	if name == "" {
		return nil
	}
	target := url.Join(s.baseURL, container, name)
	exists, err := s.fs.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("check blob failed: %w", err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, target); err != nil {
		return fmt.Errorf("delete blob failed: %w", err)
	}
	return nil
}

func (s *LocalStorage) EditFile(ctx context.Context, content []byte, extension, container, locator string) (string, error) {
	if err := s.RemoveFile(ctx, locator, container); err != nil {
		return "", err
	}
	return s.SaveFile(ctx, content, extension, container)
}

// Read returns a stored blob and its content type. Names must be a single
// path segment; anything else is reported as ErrBlobNotFound.
func (s *LocalStorage) Read(ctx context.Context, container, name string) ([]byte, string, error) {
	if !validSegment(container) || !validSegment(name) {
		return nil, "", ErrBlobNotFound
	}
	target := url.Join(s.baseURL, container, name)
	exists, err := s.fs.Exists(ctx, target)
	if err != nil {
		return nil, "", fmt.Errorf("check blob failed: %w", err)
	}
	if !exists {
		return nil, "", ErrBlobNotFound
	}
	content, err := s.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, "", fmt.Errorf("read blob failed: %w", err)
	}
	return content, contentType(path.Ext(name)), nil
}

func validSegment(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}
