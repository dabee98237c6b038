package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors_SetKind(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"NotFound", NotFound("x"), ErrNotFound},
		{"NotFoundf", NotFoundf("component %s", "home"), ErrNotFound},
		{"Validation", Validation("x"), ErrValidation},
		{"Validationf", Validationf("%d", 1), ErrValidation},
		{"Conflict", Conflict("x"), ErrConflict},
		{"Conflictf", Conflictf("%s", "x"), ErrConflict},
		{"InvalidInput", InvalidInput("x"), ErrInvalidInput},
		{"InvalidInputf", InvalidInputf("%s", "x"), ErrInvalidInput},
		{"Internal", Internal(fmt.Errorf("boom")), ErrInternal},
		{"Internalf", Internalf("%s", "x"), ErrInternal},
		{"Parse", Parse(fmt.Errorf("bad toml")), ErrParse},
		{"Schemaf", Schemaf("home", "position", "out of range"), ErrSchema},
		{"UnsupportedType", UnsupportedType("home", "dial"), ErrUnsupportedType},
		{"Runtimef", Runtimef("component '%s' is not editable", "title"), ErrRuntime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected Kind %v, got %v", tt.kind, tt.err.Kind)
			}
		})
	}
}

func TestError_MessageFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"plain", Validation("bad value"), "bad value"},
		{"subject and field", Schemaf("home", "position", "(640, 0) is outside 640x480"), "'home' position: (640, 0) is outside 640x480"},
		{"subject only", &Error{Kind: ErrSchema, Subject: "home", Message: "broken"}, "'home': broken"},
		{"unsupported type", UnsupportedType("clock", "dial"), "'clock' type: unsupported type 'dial'"},
		{"wrapped", Wrap(fmt.Errorf("disk full"), ErrInternal, "save failed"), "save failed: disk full"},
		{"parse", Parse(fmt.Errorf("line 3: expected '='")), "document parse error: line 3: expected '='"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	underlying := fmt.Errorf("original")
	err := Wrap(underlying, ErrNotFound, "context")

	if err.Unwrap() != underlying {
		t.Errorf("expected Unwrap to return underlying error")
	}
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find underlying error")
	}
}

func TestErrorsAs_WrappedError(t *testing.T) {
	appErr := Schemaf("score", "default", "must be an integer")
	wrapped := fmt.Errorf("loading: %w", appErr)

	var target *Error
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find *Error")
	}
	if target.Subject != "score" || target.Field != "default" {
		t.Errorf("unexpected subject/field %q/%q", target.Subject, target.Field)
	}
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Runtimef("unknown component 'x'"))

	if !IsKind(wrapped, ErrRuntime) {
		t.Error("expected IsKind to match ErrRuntime through wrapping")
	}
	if IsKind(wrapped, ErrSchema) {
		t.Error("expected IsKind not to match ErrSchema")
	}
	if IsKind(fmt.Errorf("plain"), ErrInternal) {
		t.Error("expected IsKind to be false for foreign errors")
	}
	if IsKind(nil, ErrInternal) {
		t.Error("expected IsKind to be false for nil")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(UnsupportedType("a", "b")); got != ErrUnsupportedType {
		t.Errorf("KindOf = %v, want %v", got, ErrUnsupportedType)
	}
	if got := KindOf(fmt.Errorf("plain")); got != ErrInternal {
		t.Errorf("KindOf(foreign) = %v, want %v", got, ErrInternal)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{ErrInternal, "internal"},
		{ErrNotFound, "not_found"},
		{ErrValidation, "validation"},
		{ErrConflict, "conflict"},
		{ErrInvalidInput, "invalid_input"},
		{ErrParse, "parse"},
		{ErrSchema, "schema"},
		{ErrUnsupportedType, "unsupported_type"},
		{ErrRuntime, "runtime"},
		{Kind(99), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKindConstants(t *testing.T) {
	kinds := []Kind{ErrInternal, ErrNotFound, ErrValidation, ErrConflict, ErrInvalidInput, ErrParse, ErrSchema, ErrUnsupportedType, ErrRuntime}
	seen := make(map[Kind]bool)
	for _, k := range kinds {
		if seen[k] {
			t.Errorf("duplicate kind value %d", k)
		}
		seen[k] = true
	}
}
