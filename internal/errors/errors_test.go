package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := Configf("house system %q has no code", "Koch")
	if got := plain.Error(); got != `[CONFIG_ERROR] house system "Koch" has no code` {
		t.Errorf("unexpected message: %s", got)
	}

	cause := fmt.Errorf("boom")
	wrapped := Provider("position unavailable", cause)
	if got := wrapped.Error(); got != "[PROVIDER_ERROR] position unavailable: boom" {
		t.Errorf("unexpected message: %s", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("expected wrapped error to unwrap to its cause")
	}
}

func TestIsTypeFollowsWrapChain(t *testing.T) {
	inner := Inputf("latitude %.1f out of range", 91.0)
	outer := fmt.Errorf("natal chart: %w", inner)

	if !IsType(outer, TypeInput) {
		t.Error("expected IsType to find the input error through fmt wrapping")
	}
	if IsType(outer, TypeConfig) {
		t.Error("input error must not report as config error")
	}
	if TypeOf(outer) != TypeInput {
		t.Errorf("TypeOf = %s, want %s", TypeOf(outer), TypeInput)
	}
	if TypeOf(fmt.Errorf("plain")) != TypeInternal {
		t.Error("non-domain errors should classify as internal")
	}
}

func TestWithContext(t *testing.T) {
	err := NotFound("body", "Vulcan").WithContext("source", "catalog")
	if err.Context["source"] != "catalog" {
		t.Errorf("context not recorded: %v", err.Context)
	}
	if !err.HasType(TypeNotFound) {
		t.Error("expected NOT_FOUND type")
	}
	if err.HasType(TypeInput) {
		t.Error("NOT_FOUND must not report as INPUT_ERROR")
	}
}
