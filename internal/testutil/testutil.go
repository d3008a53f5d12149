// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNaN fails the test if v is a defined value.
func AssertNaN(t *testing.T, name string, v float64) {
	t.Helper()
	if !math.IsNaN(v) {
		t.Errorf("%s = %v, want NaN", name, v)
	}
}

// AssertDefined fails the test if v is NaN.
func AssertDefined(t *testing.T, name string, v float64) {
	t.Helper()
	if math.IsNaN(v) {
		t.Errorf("%s is NaN, want a defined value", name)
	}
}

// AssertInDelta fails the test if got is NaN or differs from want by more
// than delta.
func AssertInDelta(t *testing.T, name string, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("%s = %v, want %v ± %v", name, got, want, delta)
	}
}
