package command

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegistryKeys(t *testing.T) {
	commands := Registry()
	for _, key := range []string{"countries get", "countries create", "teams create", "teams combo", "teams update"} {
		if _, ok := commands[key]; !ok {
			t.Fatalf("missing command %q", key)
		}
	}
	keys := Keys(commands)
	if keys[0] != "countries all" {
		t.Fatalf("keys not sorted: %v", keys)
	}
}

func TestBuildRequestPath(t *testing.T) {
	commands := Registry()

	req, err := BuildRequest(commands["teams combo"], Params{"country": "7"})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Method != "GET" || req.Path != "/api/teams/combo/7" || req.Body != nil {
		t.Fatalf("req = %+v", req)
	}

	req, err = BuildRequest(commands["countries count"], Params{"filter": "arg entina"})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Path != "/api/countries/totalRecordsPaginated?filter=arg+entina" {
		t.Fatalf("path = %s", req.Path)
	}

	if _, err := BuildRequest(commands["countries get"], Params{}); err == nil {
		t.Fatal("missing id should fail")
	}
	if _, err := BuildRequest(commands["teams get"], Params{"id": "abc"}); err == nil {
		t.Fatal("non-numeric id should fail")
	}
}

func TestBuildRequestTeamPayload(t *testing.T) {
	image := filepath.Join(t.TempDir(), "river.png")
	if err := os.WriteFile(image, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	params, err := ParseTokens([]string{"name=River Plate", "countryId=7", "image_file=" + image, "square=yes"})
	if err != nil {
		t.Fatalf("ParseTokens: %v", err)
	}

	req, err := BuildRequest(Registry()["teams create"], params)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Method != "POST" || req.Path != "/api/teams/full" {
		t.Fatalf("req = %+v", req)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body["name"] != "River Plate" || body["countryId"] != float64(7) || body["isImageSquare"] != true {
		t.Fatalf("body = %v", body)
	}
	if body["image"] != base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("image = %v", body["image"])
	}
}

func TestBuildRequestValidation(t *testing.T) {
	commands := Registry()
	if _, err := BuildRequest(commands["countries create"], Params{}); err == nil {
		t.Fatal("missing name should fail")
	}
	if _, err := BuildRequest(commands["teams create"], Params{"name": "x", "countryid": "seven"}); err == nil {
		t.Fatal("invalid countryId should fail")
	}
	if _, err := BuildRequest(commands["teams create"], Params{"name": "x", "countryid": "1", "image": "/missing.png"}); err == nil {
		t.Fatal("missing image file should fail")
	}
}

func TestParseTokens(t *testing.T) {
	if _, err := ParseTokens([]string{"novalue"}); err == nil {
		t.Fatal("expected error")
	}
	params, err := ParseTokens([]string{"Name=a=b"})
	if err != nil || params.Get("name") != "a=b" {
		t.Fatalf("params = %v, %v", params, err)
	}
}

func TestParseBool(t *testing.T) {
	for _, value := range []string{"true", "Yes", "1"} {
		if b, err := ParseBool(value); err != nil || !b {
			t.Fatalf("ParseBool(%q) = %v, %v", value, b, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFieldValue(t *testing.T) {
	id := Field{Name: "countryId", Type: FieldInt64}
	if v, err := id.Value(" 12 "); err != nil || v != int64(12) {
		t.Fatalf("int value = %v, %v", v, err)
	}
	if _, err := id.Value("twelve"); err == nil || !strings.Contains(err.Error(), "countryId") {
		t.Fatalf("expected named error, got %v", err)
	}
	square := Field{Name: "isImageSquare", Type: FieldBool}
	if v, err := square.Value("no"); err != nil || v != false {
		t.Fatalf("bool value = %v, %v", v, err)
	}
	empty := filepath.Join(t.TempDir(), "empty.png")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Field{Name: "image", Type: FieldFile}).Value(empty); err == nil {
		t.Fatal("empty image should be rejected")
	}
	if FieldFile.String() != "file" || FieldString.String() != "string" {
		t.Fatal("unexpected field type names")
	}
}
