package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ListState remembers how a list was last viewed.
type ListState struct {
	RecordsNumber int    `json:"recordsNumber,omitempty"`
	Filter        string `json:"filter,omitempty"`
}

// State is the console state persisted between sessions.
type State struct {
	BaseURL string               `json:"baseURL,omitempty"`
	Lists   map[string]ListState `json:"lists,omitempty"`
}

// List returns the saved state of a list, or the zero value.
func (s *State) List(name string) ListState {
	if s.Lists == nil {
		return ListState{}
	}
	return s.Lists[name]
}

func (s *State) SetList(name string, list ListState) {
	if s.Lists == nil {
		s.Lists = make(map[string]ListState)
	}
	s.Lists[name] = list
}

func Load(path string) (State, error) {
	var st State
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read state failed: %w", err)
	}
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse state failed: %w", err)
	}
	return st, nil
}

func Save(path string, st State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir failed: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write state failed: %w", err)
	}
	return nil
}

func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state failed: %w", err)
	}
	return nil
}
