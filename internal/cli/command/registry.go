package command

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var (
	idField      = Field{Name: "id", Prompt: "id", Type: FieldInt64, Required: true}
	nameField    = Field{Name: "name", Prompt: "name", Type: FieldString, Required: true}
	countryField = Field{Name: "countryId", Aliases: []string{"country", "country_id"}, Prompt: "countryId", Type: FieldInt64, Required: true}
	imageField   = Field{Name: "image", Aliases: []string{"image_file", "file"}, Prompt: "image file", Type: FieldFile}
	squareField  = Field{Name: "isImageSquare", Aliases: []string{"square"}, Prompt: "isImageSquare", Type: FieldBool}
)

// Registry returns all request commands keyed by "service action".
// Deletes go through the list views so the table reloads afterwards.
func Registry() map[string]Command {
	commands := []Command{
		{Service: "countries", Action: "all", Method: "GET", PathTemplate: "/api/countries"},
		{Service: "countries", Action: "get", Method: "GET", PathTemplate: "/api/countries/:id", Fields: []Field{idField}},
		{Service: "countries", Action: "combo", Method: "GET", PathTemplate: "/api/countries/combo"},
		{
			Service: "countries", Action: "count", Method: "GET", PathTemplate: "/api/countries/totalRecordsPaginated",
			Fields: []Field{{Name: "filter", Prompt: "filter"}},
		},
		{Service: "countries", Action: "create", Method: "POST", PathTemplate: "/api/countries", Fields: []Field{nameField}},
		{Service: "countries", Action: "update", Method: "PUT", PathTemplate: "/api/countries", Fields: []Field{idField, nameField}},

		{Service: "teams", Action: "all", Method: "GET", PathTemplate: "/api/teams"},
		{Service: "teams", Action: "get", Method: "GET", PathTemplate: "/api/teams/:id", Fields: []Field{idField}},
		{Service: "teams", Action: "combo", Method: "GET", PathTemplate: "/api/teams/combo/:countryId", Fields: []Field{countryField}},
		{
			Service: "teams", Action: "count", Method: "GET", PathTemplate: "/api/teams/totalRecordsPaginated",
			Fields: []Field{{Name: "filter", Prompt: "filter"}},
		},
		{
			Service: "teams", Action: "create", Method: "POST", PathTemplate: "/api/teams/full",
			Fields: []Field{nameField, countryField, imageField, squareField},
		},
		{
			Service: "teams", Action: "update", Method: "PUT", PathTemplate: "/api/teams/full",
			Fields: []Field{idField, nameField, countryField, imageField, squareField},
		},
	}

	result := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		result[cmd.Key()] = cmd
	}
	return result
}

// Keys returns the registry keys in order, for help and completion.
func Keys(commands map[string]Command) []string {
	keys := make([]string, 0, len(commands))
	for key := range commands {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// BuildRequest turns a command and its params into an API request.
func BuildRequest(cmd Command, params Params) (RequestSpec, error) {
	params.Canonicalize(cmd.Fields)
	path, err := buildPath(cmd, params)
	if err != nil {
		return RequestSpec{}, err
	}

	var body []byte
	if cmd.Method != "GET" && cmd.Method != "DELETE" {
		payload, err := buildPayload(cmd, params)
		if err != nil {
			return RequestSpec{}, err
		}
		body, err = json.Marshal(payload)
		if err != nil {
			return RequestSpec{}, fmt.Errorf("marshal request body failed: %w", err)
		}
	}

	return RequestSpec{
		Method:  cmd.Method,
		Path:    path,
		Headers: map[string]string{},
		Body:    body,
	}, nil
}

func buildPath(cmd Command, params Params) (string, error) {
	path := cmd.PathTemplate
	for _, field := range cmd.Fields {
		placeholder := ":" + field.Name
		if !strings.Contains(path, placeholder) {
			continue
		}
		value := params.Get(field.Name)
		if value == "" {
			return "", fmt.Errorf("missing path parameter: %s", field.Name)
		}
		if field.Type == FieldInt64 {
			if _, err := ParseInt64(value); err != nil {
				return "", fmt.Errorf("invalid %s: %w", field.Name, err)
			}
		}
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(value))
	}
	if cmd.Method == "GET" && params.Get("filter") != "" {
		path += "?" + url.Values{"filter": {params.Get("filter")}}.Encode()
	}
	return path, nil
}

func buildPayload(cmd Command, params Params) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	for _, field := range cmd.Fields {
		value := params.Get(field.Name)
		if value == "" {
			if field.Required {
				return nil, fmt.Errorf("%s is required", field.Name)
			}
			continue
		}
		v, err := field.Value(value)
		if err != nil {
			return nil, err
		}
		payload[field.Name] = v
	}
	return payload, nil
}
