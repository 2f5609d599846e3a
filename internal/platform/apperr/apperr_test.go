package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesByCode(t *testing.T) {
	base := New(KindAuthorization, "missing_role", "missing role")
	formatted := base.WithMessage("account %s is missing role %s", "bob", "MINTER_ROLE")

	if !errors.Is(formatted, base) {
		t.Fatalf("expected formatted error to match base by code")
	}
	if formatted.Error() != "account bob is missing role MINTER_ROLE" {
		t.Fatalf("unexpected message: %q", formatted.Error())
	}

	other := New(KindAuthorization, "other", "missing role")
	if errors.Is(formatted, other) {
		t.Fatalf("expected different codes not to match")
	}
}

func TestAs_UnwrapsChain(t *testing.T) {
	base := New(KindOperational, "paused", "Pausable: paused")
	wrapped := fmt.Errorf("breed: %w", base)

	ae, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected As to find *Error")
	}
	if ae.Kind != KindOperational {
		t.Fatalf("expected kind operational, got %s", ae.Kind)
	}

	cause := errors.New("db down")
	w := base.Wrap(cause)
	if !errors.Is(w, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(KindAuthorization, "x", "x"), 403},
		{New(KindInvalidReference, CodeInvalidID, "Id 0 is invalid"), 400},
		{New(KindInvalidReference, "not_found", "not found"), 404},
		{New(KindStatePrecondition, "x", "x"), 409},
		{New(KindSupplyCap, "x", "x"), 409},
		{New(KindConfiguration, "x", "x"), 400},
		{fmt.Errorf("wrapped: %w", New(KindOperational, "paused", "Pausable: paused")), 503},
		{errors.New("boom"), 500},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v): expected %d, got %d", c.err, c.want, got)
		}
	}

	b := ToBody(errors.New("db password leaked"))
	if b.Message != "internal error" {
		t.Fatalf("expected opaque message for unknown errors, got %q", b.Message)
	}
}
