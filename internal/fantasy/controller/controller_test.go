package controller

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"fantasy/internal/common/db"
	commonmw "fantasy/internal/common/http/middleware"
	"fantasy/internal/common/storage"
	"fantasy/internal/fantasy/model"
	"fantasy/internal/fantasy/repository"
	"fantasy/internal/fantasy/service"
	pkgerrors "fantasy/pkg/errors"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code    pkgerrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	TraceID string              `json:"trace_id"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.NewSQLite("file:" + filepath.Join(t.TempDir(), "fantasy.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := db.Migrate(context.Background(), database, repository.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	blobs, err := storage.NewLocalStorage(storage.LocalConfig{BaseURL: t.TempDir()})
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	provider := db.NewManager(database)
	countryRepo := repository.NewCountryRepository(provider, nil)
	teamRepo := repository.NewTeamRepository(provider, nil)

	router := gin.New()
	router.Use(commonmw.TraceContextMiddleware())
	RegisterRoutes(router.Group("/api"),
		NewCountryController(service.NewCountryService(countryRepo)),
		NewTeamController(service.NewTeamService(teamRepo, countryRepo, blobs)),
	)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode envelope %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func createCountry(t *testing.T, router *gin.Engine, name string) model.Country {
	t.Helper()
	status, env := do(t, router, http.MethodPost, "/api/countries", map[string]string{"name": name})
	if status != http.StatusOK {
		t.Fatalf("create country %s: %d %s", name, status, env.Message)
	}
	var country model.Country
	decodeData(t, env, &country)
	return country
}

func TestCountriesPaginatedFilter(t *testing.T) {
	router := newTestRouter(t)
	for _, name := range []string{"Argentina", "Bulgaria", "Colombia", "Margaria", "Peru"} {
		createCountry(t, router, name)
	}
	for i := 0; i < 12; i++ {
		createCountry(t, router, fmt.Sprintf("Argland %02d", i))
	}

	status, env := do(t, router, http.MethodGet, "/api/countries/paginated?page=1&recordsnumber=10&filter=arg", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var page []model.Country
	decodeData(t, env, &page)
	if len(page) != 10 {
		t.Fatalf("page size = %d, want 10", len(page))
	}
	if page[0].Name != "Argentina" || page[1].Name != "Argland 00" {
		t.Fatalf("unexpected order: %s, %s", page[0].Name, page[1].Name)
	}
	for i := 1; i < len(page); i++ {
		if page[i-1].Name > page[i].Name {
			t.Fatalf("page not alphabetical at %d: %s > %s", i, page[i-1].Name, page[i].Name)
		}
	}

	status, env = do(t, router, http.MethodGet, "/api/countries/totalRecordsPaginated?filter=ARG", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var total int64
	decodeData(t, env, &total)
	if total != 14 {
		t.Fatalf("total = %d, want 14", total)
	}

	status, env = do(t, router, http.MethodGet, "/api/countries/paginated?page=2&recordsNumber=10&filter=arg", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	decodeData(t, env, &page)
	if len(page) != 4 {
		t.Fatalf("second page size = %d, want 4", len(page))
	}

	status, env = do(t, router, http.MethodGet, "/api/countries/paginated?page=9", nil)
	if status != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("beyond last page = %d %s, want empty array", status, env.Data)
	}

	status, _ = do(t, router, http.MethodGet, "/api/countries/paginated?page=abc", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid page status = %d, want 400", status)
	}
}

func TestCountryNotFoundAndDuplicates(t *testing.T) {
	router := newTestRouter(t)
	createCountry(t, router, "Chile")

	status, env := do(t, router, http.MethodDelete, "/api/countries/999", nil)
	if status != http.StatusNotFound || env.Code != pkgerrors.CountryNotFound {
		t.Fatalf("delete missing = %d %d", status, env.Code)
	}
	status, _ = do(t, router, http.MethodGet, "/api/countries/999", nil)
	if status != http.StatusNotFound {
		t.Fatalf("get missing = %d", status)
	}

	status, env = do(t, router, http.MethodPost, "/api/countries", map[string]string{"name": "Chile"})
	if status != http.StatusBadRequest || env.Code != pkgerrors.CountryAlreadyExists {
		t.Fatalf("duplicate = %d %d", status, env.Code)
	}
	if env.Message == "" || env.TraceID == "" {
		t.Fatalf("error envelope missing message or trace id: %+v", env)
	}

	status, _ = do(t, router, http.MethodPost, "/api/countries", map[string]string{"name": ""})
	if status != http.StatusBadRequest {
		t.Fatalf("empty name = %d", status)
	}
}

func TestCountryUpdateAndCombo(t *testing.T) {
	router := newTestRouter(t)
	peru := createCountry(t, router, "Peru")
	createCountry(t, router, "Bolivia")

	status, env := do(t, router, http.MethodPut, "/api/countries", map[string]interface{}{"id": peru.ID, "name": "Perú"})
	if status != http.StatusOK {
		t.Fatalf("update = %d %s", status, env.Message)
	}

	status, env = do(t, router, http.MethodGet, "/api/countries/combo", nil)
	if status != http.StatusOK {
		t.Fatalf("combo = %d", status)
	}
	var combo []model.CountryCombo
	decodeData(t, env, &combo)
	if len(combo) != 2 || combo[0].Name != "Bolivia" || combo[1].Name != "Perú" {
		t.Fatalf("unexpected combo %+v", combo)
	}
}

func TestTeamsFullWritePath(t *testing.T) {
	router := newTestRouter(t)
	for i := 0; i < 6; i++ {
		createCountry(t, router, fmt.Sprintf("Filler %d", i))
	}
	argentina := createCountry(t, router, "Argentina")
	if argentina.ID != 7 {
		t.Fatalf("argentina id = %d, want 7", argentina.ID)
	}

	status, env := do(t, router, http.MethodPost, "/api/teams/full", map[string]interface{}{"name": "River", "countryId": 7})
	if status != http.StatusOK {
		t.Fatalf("add full = %d %s", status, env.Message)
	}
	var team model.Team
	decodeData(t, env, &team)
	if team.ID == 0 || team.CountryID != 7 {
		t.Fatalf("unexpected team %+v", team)
	}
	var raw map[string]interface{}
	decodeData(t, env, &raw)
	if raw["imageFull"] != model.NoImagePlaceholder {
		t.Fatalf("imageFull = %v", raw["imageFull"])
	}

	image := base64.StdEncoding.EncodeToString([]byte("river-crest"))
	status, env = do(t, router, http.MethodPut, "/api/teams/full", map[string]interface{}{
		"id": team.ID, "name": "River", "countryId": 7, "image": image,
	})
	if status != http.StatusOK {
		t.Fatalf("update with image = %d %s", status, env.Message)
	}
	decodeData(t, env, &team)
	if team.Image == "" {
		t.Fatal("expected stored image locator")
	}
	stored := team.Image

	status, env = do(t, router, http.MethodPut, "/api/teams/full", map[string]interface{}{
		"id": team.ID, "name": "River Plate", "countryId": 7,
	})
	if status != http.StatusOK {
		t.Fatalf("update without image = %d %s", status, env.Message)
	}
	decodeData(t, env, &team)
	if team.Image != stored || team.Name != "River Plate" {
		t.Fatalf("image should be kept: %+v", team)
	}

	status, env = do(t, router, http.MethodPost, "/api/teams/full", map[string]interface{}{"name": "Ghost", "countryId": 99})
	if status != http.StatusBadRequest || env.Code != pkgerrors.TeamCountryNotFound {
		t.Fatalf("unknown country = %d %d", status, env.Code)
	}

	status, env = do(t, router, http.MethodPost, "/api/teams/full", map[string]interface{}{"name": "River Plate", "countryId": 7})
	if status != http.StatusBadRequest || env.Code != pkgerrors.TeamAlreadyExists {
		t.Fatalf("duplicate team = %d %d", status, env.Code)
	}

	status, env = do(t, router, http.MethodDelete, fmt.Sprintf("/api/countries/%d", argentina.ID), nil)
	if status != http.StatusBadRequest || env.Code != pkgerrors.CountryInUse {
		t.Fatalf("delete referenced country = %d %d", status, env.Code)
	}
}

func TestTeamsListAndCombo(t *testing.T) {
	router := newTestRouter(t)
	brazil := createCountry(t, router, "Brazil")
	chile := createCountry(t, router, "Chile")
	for _, name := range []string{"Santos", "Flamengo"} {
		if status, env := do(t, router, http.MethodPost, "/api/teams", map[string]interface{}{"name": name, "countryId": brazil.ID}); status != http.StatusOK {
			t.Fatalf("create %s = %d %s", name, status, env.Message)
		}
	}
	if status, _ := do(t, router, http.MethodPost, "/api/teams", map[string]interface{}{"name": "Colo-Colo", "countryId": chile.ID}); status != http.StatusOK {
		t.Fatal("create Colo-Colo failed")
	}

	status, env := do(t, router, http.MethodGet, "/api/teams/paginated?page=1&recordsnumber=10&filter=braz", nil)
	if status != http.StatusOK {
		t.Fatalf("paginated = %d", status)
	}
	var teams []model.Team
	decodeData(t, env, &teams)
	if len(teams) != 2 || teams[0].Name != "Flamengo" || teams[0].Country == nil || teams[0].Country.Name != "Brazil" {
		t.Fatalf("unexpected teams %+v", teams)
	}

	for _, path := range []string{
		fmt.Sprintf("/api/teams/combo/%d", brazil.ID),
		fmt.Sprintf("/api/teams/combo?countryId=%d", brazil.ID),
	} {
		status, env = do(t, router, http.MethodGet, path, nil)
		if status != http.StatusOK {
			t.Fatalf("%s = %d", path, status)
		}
		var combo []model.TeamCombo
		decodeData(t, env, &combo)
		if len(combo) != 2 || combo[0].Name != "Flamengo" {
			t.Fatalf("%s combo = %+v", path, combo)
		}
	}

	status, _ = do(t, router, http.MethodGet, "/api/teams/combo?countryId=x", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("bad combo id = %d", status)
	}

	status, env = do(t, router, http.MethodGet, fmt.Sprintf("/api/countries/%d", brazil.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("get country = %d", status)
	}
	var raw map[string]interface{}
	decodeData(t, env, &raw)
	if raw["teamsCount"] != float64(2) {
		t.Fatalf("teamsCount = %v", raw["teamsCount"])
	}

	status, _ = do(t, router, http.MethodDelete, "/api/teams/999", nil)
	if status != http.StatusNotFound {
		t.Fatalf("delete missing team = %d", status)
	}
}
