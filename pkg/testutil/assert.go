// Package testutil holds assertion helpers shared by package tests.
package testutil

import (
	"encoding/json"
	"reflect"
	"testing"

	pkgerrors "fantasy/pkg/errors"
)

// AssertEqual compares comparable values with ==.
func AssertEqual(t testing.TB, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("got %v (%T), want %v (%T)", got, got, want, want)
	}
}

// AssertDeepEqual compares slices, maps and structs.
func AssertDeepEqual(t testing.TB, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func AssertNil(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertTrue(t testing.TB, condition bool, message string) {
	t.Helper()
	if !condition {
		t.Errorf("expected true: %s", message)
	}
}

func AssertFalse(t testing.TB, condition bool, message string) {
	t.Helper()
	AssertTrue(t, !condition, message)
}

// AssertErrorCode fails unless err carries the given error code.
func AssertErrorCode(t testing.TB, err error, want pkgerrors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %d, got nil", want)
	}
	if got := pkgerrors.GetCode(err); got != want {
		t.Fatalf("error code = %d (%v), want %d", got, err, want)
	}
}

// DecodeJSON unmarshals data into a T or fails the test.
func DecodeJSON[T any](t testing.TB, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode JSON: %v (%s)", err, data)
	}
	return v
}
