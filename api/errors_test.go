package api

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorContext(t *testing.T) {
	err := NewError(ErrCodeInvalidArgument, "bad capacity").WithContext("capacity", 3)
	if !strings.Contains(err.Error(), "capacity:3") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected errors.Is to match ErrInvalidArgument")
	}
}

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeOK, "ok"},
		{ErrCodeContractViolation, "contract_violation"},
		{ErrorCode(42), "code(42)"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("%d: expected %q, got %q", int(tt.code), tt.want, got)
		}
	}
}

func TestErrorWithoutContext(t *testing.T) {
	err := &Error{Code: ErrCodeInternal, Message: "boom"}
	if err.Error() != "boom" {
		t.Errorf("expected bare message, got %q", err.Error())
	}
	if errors.Unwrap(err) != nil {
		t.Errorf("internal code should not unwrap")
	}
}
