package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorsUnwrapToTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{ErrStudentNotFound, ErrResourceNotFound},
		{ErrBatchEmpty, ErrResourceNotFound},
		{ErrEmailAlreadyExists, ErrConflict},
		{NewValidationError("batch is required"), ErrValidationFailed},
		{fmt.Errorf("apply: %w", ErrFeeNotFound), ErrResourceNotFound},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.target) {
			t.Errorf("%v should match %v", tc.err, tc.target)
		}
	}
}

func TestStoreErrorKeepsCauseButHidesIt(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("list students", cause)

	if !errors.Is(err, ErrStore) {
		t.Fatal("expected ErrStore")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable for logging")
	}
	if err.Error() != "list students" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestClientMessage(t *testing.T) {
	if got := ClientMessage(ErrStudentNotFound, "x"); got != "student not found" {
		t.Fatalf("got %q", got)
	}
	if got := ClientMessage(errors.New("raw"), "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}
