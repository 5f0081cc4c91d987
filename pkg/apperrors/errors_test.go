package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestIsAndRetryableClassifyByCategory(t *testing.T) {
	transient := Transient(errors.New("boom"), "call node")
	if !Is(transient, CategoryTransientExternal) {
		t.Error("expected transient error to be CategoryTransientExternal")
	}
	if !Retryable(transient) {
		t.Error("expected transient error to be retryable")
	}

	validation := Validation(errors.New("bad input"), "validate job")
	if Retryable(validation) {
		t.Error("expected validation error to not be retryable")
	}
	if !Is(validation, CategoryValidation) {
		t.Error("expected validation error to be CategoryValidation")
	}
}

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{LockContention("held"), http.StatusLocked},
		{Validation(errors.New("x"), "bad"), http.StatusBadRequest},
		{Structural(errors.New("x"), "invariant"), http.StatusConflict},
		{Transient(errors.New("x"), "timeout"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		var svcErr *ServiceError
		if !errors.As(tc.err, &svcErr) {
			t.Fatalf("expected %v to be a *ServiceError", tc.err)
		}
		if got := svcErr.StatusCode(); got != tc.want {
			t.Errorf("StatusCode() = %d, want %d", got, tc.want)
		}
	}
}

func TestUnwrapExposesUnderlyingCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transient(cause, "call node")
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}
