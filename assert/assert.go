// Package assert provides minimal test assertion helpers.
package assert

import "testing"

// Equal fails the test if expected != actual.
func Equal[T comparable](t *testing.T, expected, actual T, label string) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected %v, got %v for %s", expected, actual, label)
	}
}

// NoError fails the test if err is non-nil.
func NoError(t *testing.T, err error, label string) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error for %s: %v", label, err)
	}
}

// Error fails the test if err is nil.
func Error(t *testing.T, err error, label string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error for %s, got nil", label)
	}
}

// True fails the test if cond is false.
func True(t *testing.T, cond bool, label string) {
	t.Helper()
	if !cond {
		t.Errorf("expected %s to be true", label)
	}
}

// False fails the test if cond is true.
func False(t *testing.T, cond bool, label string) {
	t.Helper()
	if cond {
		t.Errorf("expected %s to be false", label)
	}
}
