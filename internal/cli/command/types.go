package command

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FieldType decides how a console value is sent to the API.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt64
	FieldBool
	// FieldFile values are paths; the file is sent base64-encoded.
	FieldFile
)

func (t FieldType) String() string {
	switch t {
	case FieldInt64:
		return "int"
	case FieldBool:
		return "bool"
	case FieldFile:
		return "file"
	default:
		return "string"
	}
}

// Field is one key=value input of a command.
type Field struct {
	Name     string
	Aliases  []string
	Prompt   string
	Type     FieldType
	Required bool
}

// Value converts raw into the JSON value sent for f.
func (f Field) Value(raw string) (interface{}, error) {
	switch f.Type {
	case FieldInt64:
		n, err := ParseInt64(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: want an integer", f.Name, raw)
		}
		return n, nil
	case FieldBool:
		b, err := ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.Name, err)
		}
		return b, nil
	case FieldFile:
		return ReadBase64(raw)
	default:
		return raw, nil
	}
}

// Command binds "<service> <action>" to an API route.
type Command struct {
	Service      string
	Action       string
	Method       string
	PathTemplate string
	Fields       []Field
	Usage        string
}

func (c Command) Key() string {
	return c.Service + " " + c.Action
}

// RequestSpec is a request ready for the HTTP client.
type RequestSpec struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// Params are console arguments keyed by lower-cased name.
type Params map[string]string

func (p Params) Get(key string) string { return p[strings.ToLower(key)] }

func (p Params) Set(key, value string) { p[strings.ToLower(key)] = value }

// Canonicalize renames alias keys to their field names.
func (p Params) Canonicalize(fields []Field) {
	for _, f := range fields {
		name := strings.ToLower(f.Name)
		for _, alias := range f.Aliases {
			a := strings.ToLower(alias)
			if v, ok := p[a]; ok {
				p[name] = v
				delete(p, a)
			}
		}
	}
}

// ParseTokens parses key=value tokens; only the first '=' splits.
func ParseTokens(tokens []string) (Params, error) {
	params := make(Params, len(tokens))
	for _, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: want key=value", token)
		}
		params.Set(key, value)
	}
	return params, nil
}

func ParseInt64(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// ParseBool accepts yes/no answers as well as true/false; empty is false.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "n", "no", "false", "0":
		return false, nil
	case "y", "yes", "true", "1":
		return true, nil
	}
	return false, fmt.Errorf("%q is not yes or no", value)
}

// ReadBase64 loads an image file for upload.
func ReadBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("read image: %s is empty", path)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
