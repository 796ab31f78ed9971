package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFoundf("company %d not found", 7), KindNotFound},
		{"validation", Validation(errors.New("name is required")), KindValidation},
		{"generation invalid", GenerationInvalid("bad output", nil), KindGenerationInvalid},
		{"generation timeout", GenerationTimeout(errors.New("deadline")), KindGenerationTimeout},
		{"store", Store(errors.New("connection reset")), KindStore},
		{"plain error", errors.New("who knows"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while listing: %w", NotFoundf("company 7 not found"))
	if !IsNotFound(err) {
		t.Error("wrapped NotFound should still be recognized")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %v", KindOf(err))
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store(cause)
	if !errors.Is(err, cause) {
		t.Error("Store should wrap its cause")
	}
}

func TestStableCodes(t *testing.T) {
	codes := map[Kind]string{
		KindNotFound:          "NOT_FOUND",
		KindValidation:        "VALIDATION_ERROR",
		KindGenerationInvalid: "GENERATION_INVALID",
		KindGenerationTimeout: "GENERATION_TIMEOUT",
		KindStore:             "STORE_ERROR",
	}
	for kind, want := range codes {
		if got := kind.Code(); got != want {
			t.Errorf("code for %v = %q, want %q", kind, got, want)
		}
	}
}
