package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestSanitizeValidationError(t *testing.T) {
	type billRequest struct {
		CustomerPhone string  `validate:"required"`
		Amount        float64 `validate:"gt=0"`
	}

	v := validator.New()

	err := v.Struct(billRequest{})
	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "customerphone is required") {
		t.Errorf("expected required message, got %q", msg)
	}
	if !strings.Contains(msg, "amount must be greater than 0") {
		t.Errorf("expected gt message, got %q", msg)
	}

	if got := SanitizeValidationError(nil); got != "" {
		t.Errorf("expected empty message for nil error, got %q", got)
	}

	if got := SanitizeValidationError(errors.New("unexpected EOF")); got != "Invalid request body" {
		t.Errorf("expected generic message for non-validation error, got %q", got)
	}
}

func TestErrorTaxonomyMatching(t *testing.T) {
	var ve *ValidationError
	if !errors.As(error(Validationf("enter a valid 10-digit number")), &ve) {
		t.Fatal("Validationf should match *ValidationError")
	}
	if ve.Msg != "enter a valid 10-digit number" {
		t.Errorf("unexpected message %q", ve.Msg)
	}

	var ipe *InsufficientPointsError
	err := error(&InsufficientPointsError{Missing: 20})
	if !errors.As(err, &ipe) || ipe.Missing != 20 {
		t.Fatalf("expected shortfall of 20, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing 20") {
		t.Errorf("unexpected error text %q", err.Error())
	}
}
