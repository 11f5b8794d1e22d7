package testutil

import (
	"errors"
	"testing"
	"time"

	apperrors "daybook/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertSameDay fails the test unless both instants fall on the same
// UTC calendar day. Schedule walks compare day keys, so tests assert at
// that granularity too.
func AssertSameDay(t *testing.T, want, got time.Time) {
	t.Helper()

	w, g := want.UTC(), got.UTC()
	if w.Year() != g.Year() || w.Month() != g.Month() || w.Day() != g.Day() {
		t.Errorf("expected day %s, got %s", w.Format("2006-01-02"), g.Format("2006-01-02"))
	}
}
