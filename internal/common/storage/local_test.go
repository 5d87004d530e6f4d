package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLocalStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(LocalConfig{BaseURL: dir})
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return s, dir
}

func TestLocalStorageSaveFile(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestLocalStorage(t)

	locator, err := s.SaveFile(ctx, []byte("crest"), "jpg", "teams")
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if !strings.HasPrefix(locator, "file://") || !strings.HasSuffix(locator, ".jpg") {
		t.Fatalf("unexpected locator %q", locator)
	}

	data, err := os.ReadFile(filepath.Join(dir, "teams", blobName(locator)))
	if err != nil {
		t.Fatalf("read saved blob: %v", err)
	}
	if string(data) != "crest" {
		t.Fatalf("content = %q, want crest", data)
	}

	content, ct, err := s.Read(ctx, "teams", blobName(locator))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(content) != "crest" || ct != "image/jpeg" {
		t.Fatalf("read = %q (%s), want crest (image/jpeg)", content, ct)
	}
}

func TestLocalStoragePublicURLLocators(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(LocalConfig{BaseURL: t.TempDir(), PublicURL: "http://localhost:8080/blobs/"})
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	locator, err := s.SaveFile(ctx, []byte("crest"), ".png", "teams")
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if !strings.HasPrefix(locator, "http://localhost:8080/blobs/teams/") || !strings.HasSuffix(locator, ".png") {
		t.Fatalf("unexpected locator %q", locator)
	}
	if _, _, err := s.Read(ctx, "teams", blobName(locator)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := s.RemoveFile(ctx, locator, "teams"); err != nil {
		t.Fatalf("RemoveFile: %v", err)
	}
	if _, _, err := s.Read(ctx, "teams", blobName(locator)); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("removed blob err = %v", err)
	}
}

func TestLocalStorageReadRejectsTraversal(t *testing.T) {
	s, _ := newTestLocalStorage(t)
	for _, name := range []string{"", ".", "..", "../secret", `a\b`} {
		if _, _, err := s.Read(context.Background(), "teams", name); !errors.Is(err, ErrBlobNotFound) {
			t.Errorf("Read(%q) err = %v", name, err)
		}
	}
	if _, _, err := s.Read(context.Background(), "..", "x.jpg"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("container traversal err = %v", err)
	}
}

func TestLocalStorageEditFileRemovesOldBlob(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestLocalStorage(t)

	first, err := s.SaveFile(ctx, []byte("old"), ".jpg", "teams")
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	second, err := s.EditFile(ctx, []byte("new"), ".jpg", "teams", first)
	if err != nil {
		t.Fatalf("EditFile: %v", err)
	}
	if first == second {
		t.Fatal("EditFile should store under a new name")
	}
	if _, err := os.Stat(filepath.Join(dir, "teams", blobName(first))); !os.IsNotExist(err) {
		t.Fatalf("old blob should be gone, stat err = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "teams", blobName(second)))
	if err != nil || string(data) != "new" {
		t.Fatalf("new blob = %q, %v", data, err)
	}
}

func TestLocalStorageRemoveMissing(t *testing.T) {
	s, _ := newTestLocalStorage(t)
	if err := s.RemoveFile(context.Background(), "", "teams"); err != nil {
		t.Fatalf("empty locator: %v", err)
	}
	if err := s.RemoveFile(context.Background(), "file:///nowhere/teams/missing.jpg", "teams"); err != nil {
		t.Fatalf("missing blob: %v", err)
	}
}

func TestNewLocalStorageRequiresBase(t *testing.T) {
	if _, err := NewLocalStorage(LocalConfig{}); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestBlobName(t *testing.T) {
	cases := map[string]string{
		"":                                    "",
		"http://localhost:9000/teams/abc.jpg": "abc.jpg",
		"http://localhost:9000/teams/abc.jpg?x=1": "abc.jpg",
		"file:///var/blobs/teams/def.png":         "def.png",
	}
	for in, want := range cases {
		if got := blobName(in); got != want {
			t.Errorf("blobName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMinioPublicURL(t *testing.T) {
	if got := minioPublicURL(MinIOConfig{Endpoint: "localhost:9000"}); got != "http://localhost:9000" {
		t.Fatalf("got %q", got)
	}
	if got := minioPublicURL(MinIOConfig{Endpoint: "s3.local", UseSSL: true}); got != "https://s3.local" {
		t.Fatalf("got %q", got)
	}
	if got := minioPublicURL(MinIOConfig{Endpoint: "x", PublicURL: "https://cdn.example.com/"}); got != "https://cdn.example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestPublicReadPolicy(t *testing.T) {
	raw, err := publicReadPolicy("teams")
	if err != nil {
		t.Fatalf("publicReadPolicy: %v", err)
	}
	var policy bucketPolicy
	if err := json.Unmarshal([]byte(raw), &policy); err != nil {
		t.Fatalf("decode policy: %v (%s)", err, raw)
	}
	if policy.Version != "2012-10-17" || len(policy.Statement) != 1 {
		t.Fatalf("policy = %+v", policy)
	}
	st := policy.Statement[0]
	if st.Effect != "Allow" || len(st.Principal["AWS"]) != 1 || st.Principal["AWS"][0] != "*" {
		t.Fatalf("statement = %+v", st)
	}
	if len(st.Action) != 1 || st.Action[0] != "s3:GetObject" {
		t.Fatalf("actions = %v, want only s3:GetObject", st.Action)
	}
	if len(st.Resource) != 1 || st.Resource[0] != "arn:aws:s3:::teams/*" {
		t.Fatalf("resources = %v", st.Resource)
	}
}
