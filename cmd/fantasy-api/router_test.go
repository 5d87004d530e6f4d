package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"fantasy/internal/common/db"
	"fantasy/internal/common/storage"
	"fantasy/internal/fantasy/controller"
	"fantasy/internal/fantasy/repository"
	"fantasy/internal/fantasy/service"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) (*http.Server, *db.SQLDatabase) {
	server, database, _ := newTestServerWithBlobs(t)
	return server, database
}

func newTestServerWithBlobs(t *testing.T) (*http.Server, *db.SQLDatabase, *storage.LocalStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	path := writeFile(t, t.TempDir(), "api.yaml", "server:\n  maxBodyBytes: 64\n")
	cfg, err := loadAppConfig(path, "")
	if err != nil {
		t.Fatalf("loadAppConfig: %v", err)
	}
	database, err := db.NewSQLite("file:" + filepath.Join(t.TempDir(), "fantasy.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := db.Migrate(context.Background(), database, repository.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg.Storage.Local.BaseURL = t.TempDir()
	blobs, err := storage.NewLocalStorage(cfg.Storage.Local)
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	provider := db.NewManager(database)
	countryRepo := repository.NewCountryRepository(provider, nil)
	teamRepo := repository.NewTeamRepository(provider, nil)
	server := buildHTTPServer(cfg, provider, blobs,
		controller.NewCountryController(service.NewCountryService(countryRepo)),
		controller.NewTeamController(service.NewTeamService(teamRepo, countryRepo, blobs)),
	)
	return server, database, blobs
}

func TestHealthz(t *testing.T) {
	server, database := newTestServer(t)

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthz = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Trace-Id") == "" {
		t.Fatal("trace header missing")
	}

	_ = database.Close()
	w = httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("healthz after close = %d", w.Code)
	}
}

func TestGzipAndCORS(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials not allowed")
	}
}

func TestBodyLimit(t *testing.T) {
	server, _ := newTestServer(t)

	body := `{"name":"` + strings.Repeat("x", 200) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/countries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestBlobLocatorIsServed(t *testing.T) {
	server, _, blobs := newTestServerWithBlobs(t)

	locator, err := blobs.SaveFile(context.Background(), []byte("crest-bytes"), ".jpg", "teams")
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	u, err := url.Parse(locator)
	if err != nil || u.Scheme != "http" || !strings.HasPrefix(u.Path, blobsRoute+"/teams/") {
		t.Fatalf("locator %q is not a blobs URL (%v)", locator, err)
	}

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, u.Path, nil))
	if w.Code != http.StatusOK || w.Body.String() != "crest-bytes" {
		t.Fatalf("GET %s = %d %q", u.Path, w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("content type = %q", ct)
	}

	for _, path := range []string{blobsRoute + "/teams/missing.jpg", blobsRoute + "/teams/..", blobsRoute + "/../fantasy.db"} {
		w = httptest.NewRecorder()
		server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, w.Code)
		}
	}
}
