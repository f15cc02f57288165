package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageAndCause(t *testing.T) {
	plain := New(KindNotFound, "Booking not found")
	if plain.Error() != "Booking not found" {
		t.Fatalf("unexpected message: %q", plain.Error())
	}

	cause := errors.New("connection reset")
	wrapped := Wrap(KindInternal, "lookup failed", cause)
	if wrapped.Error() != "lookup failed: connection reset" {
		t.Fatalf("unexpected wrapped message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}

func TestErrorSurvivesWrapping(t *testing.T) {
	inner := Unauthorized("Invalid authentication")
	outer := fmt.Errorf("verify: %w", inner)

	var tagged *Error
	if !errors.As(outer, &tagged) {
		t.Fatalf("expected errors.As to find the tagged error")
	}
	if tagged.Kind != KindUnauthorized {
		t.Fatalf("expected KindUnauthorized, got %v", tagged.Kind)
	}
}

func TestConstructorKinds(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{Validation("v"), KindValidation},
		{Unauthorized("u"), KindUnauthorized},
		{Forbidden("f"), KindForbidden},
		{NotFound("n"), KindNotFound},
	}
	for _, tc := range cases {
		if tc.err.Kind != tc.kind {
			t.Fatalf("expected kind %v, got %v", tc.kind, tc.err.Kind)
		}
	}
}
