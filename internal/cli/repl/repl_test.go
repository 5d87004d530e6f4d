package repl

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fantasy/internal/cli/command"
	httpclient "fantasy/internal/cli/http"
	"fantasy/internal/cli/state"
	"fantasy/internal/common/db"
	"fantasy/internal/fantasy/controller"
	"fantasy/internal/fantasy/repository"
	"fantasy/internal/fantasy/service"

	"github.com/gin-gonic/gin"
)

type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) SetPrompt(prompt string) {
	r.prompts = append(r.prompts, prompt)
}

func (r *scriptedReader) Close() error { return nil }

func newTestAPI(t *testing.T) *httptest.Server {
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
	provider := db.NewManager(database)
	countries := repository.NewCountryRepository(provider, nil)
	teams := repository.NewTeamRepository(provider, nil)

	router := gin.New()
	controller.RegisterRoutes(router.Group("/api"),
		controller.NewCountryController(service.NewCountryService(countries)),
		controller.NewTeamController(service.NewTeamService(teams, countries, nil)),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newTestSession(t *testing.T, reader *scriptedReader) (*Session, *bytes.Buffer, string) {
	t.Helper()
	server := newTestAPI(t)
	out := &bytes.Buffer{}
	statePath := filepath.Join(t.TempDir(), "state.json")
	client := httpclient.New(server.URL, 5*time.Second)
	return New(client, command.Registry(), &state.State{}, statePath, false, reader, out), out, statePath
}

func mustExecute(t *testing.T, s *Session, line string) {
	t.Helper()
	if err := s.Execute(context.Background(), line); err != nil {
		t.Fatalf("%s: %v", line, err)
	}
}

func TestListCommandsAgainstAPI(t *testing.T) {
	reader := &scriptedReader{}
	session, out, statePath := newTestSession(t, reader)

	mustExecute(t, session, `countries create name=Argentina`)
	mustExecute(t, session, `countries create name="Costa Rica"`)
	mustExecute(t, session, `countries create name=Bulgaria`)
	if !strings.Contains(out.String(), "HTTP 200") {
		t.Fatalf("output:\n%s", out.String())
	}

	out.Reset()
	mustExecute(t, session, "countries filter a")
	if !strings.Contains(out.String(), `countries: 3 record(s), page 1/1, size 10, filter "a"`) {
		t.Fatalf("output:\n%s", out.String())
	}

	mustExecute(t, session, "countries size 25")
	saved, err := state.Load(statePath)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if saved.List("countries").RecordsNumber != 25 || saved.List("countries").Filter != "a" {
		t.Fatalf("saved = %+v", saved)
	}
	if err := session.Execute(context.Background(), "countries size 7"); err == nil {
		t.Fatal("unsupported size should fail")
	}

	out.Reset()
	mustExecute(t, session, "countries filter costa")
	if !strings.Contains(out.String(), "Costa Rica") || strings.Contains(out.String(), "Bulgaria") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestPromptAndDeleteFlow(t *testing.T) {
	reader := &scriptedReader{}
	session, out, _ := newTestSession(t, reader)

	mustExecute(t, session, "countries create name=Argentina")
	mustExecute(t, session, "countries list")

	// countryId is prompted for
	reader.lines = []string{"1"}
	mustExecute(t, session, "teams create name=River")
	if !strings.Contains(strings.Join(reader.prompts, "|"), "countryId: ") {
		t.Fatalf("prompts = %v", reader.prompts)
	}

	out.Reset()
	reader.lines = []string{"n"}
	mustExecute(t, session, "countries delete 1")
	if !strings.Contains(out.String(), "cancelled") {
		t.Fatalf("output:\n%s", out.String())
	}

	out.Reset()
	reader.lines = []string{"y"}
	mustExecute(t, session, "countries delete 1")
	if !strings.Contains(out.String(), "Country has teams and cannot be deleted") {
		t.Fatalf("output:\n%s", out.String())
	}

	out.Reset()
	reader.lines = []string{"y"}
	mustExecute(t, session, "teams delete id=1")
	if !strings.Contains(out.String(), "Record deleted successfully.") {
		t.Fatalf("output:\n%s", out.String())
	}

	out.Reset()
	reader.lines = []string{"y"}
	mustExecute(t, session, "teams delete 1")
	if !strings.Contains(out.String(), "Resource not found.") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestRunLoop(t *testing.T) {
	reader := &scriptedReader{lines: []string{"help", "", "bogus", "countries nope", "set timeout 2s", "show config", "exit", "help"}}
	session, out, _ := newTestSession(t, reader)

	session.Run(context.Background())

	output := out.String()
	for _, want := range []string{"usage: <countries|teams>", "error: invalid command", "error: unknown command: countries nope", "timeout set to 2s", "statePath:", "bye"} {
		if !strings.Contains(output, want) {
			t.Fatalf("missing %q in output:\n%s", want, output)
		}
	}
	if len(reader.lines) != 1 {
		t.Fatalf("exit should stop the loop, remaining %v", reader.lines)
	}
}

func TestSetBaseValidatesURL(t *testing.T) {
	session, out, statePath := newTestSession(t, &scriptedReader{})
	original := session.client.BaseURL()

	mustExecute(t, session, "set base localhost:8080")
	if !strings.Contains(out.String(), "invalid base URL") || session.client.BaseURL() != original {
		t.Fatalf("output:\n%s", out.String())
	}

	mustExecute(t, session, "set base http://fantasy.local:9000")
	if session.client.BaseURL() != "http://fantasy.local:9000" {
		t.Fatalf("base = %s", session.client.BaseURL())
	}
	saved, err := state.Load(statePath)
	if err != nil || saved.BaseURL != "http://fantasy.local:9000" {
		t.Fatalf("saved = %+v, %v", saved, err)
	}
}
