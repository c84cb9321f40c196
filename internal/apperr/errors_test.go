package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid request", inner)

	if err.Error() != "invalid request: parse failed" {
		t.Errorf("expected 'invalid request: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestConfigError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewConfigf("batch size must be positive, got %d", 0)

	wrapped := fmt.Errorf("segment: %w", original)
	doubleWrapped := fmt.Errorf("pipeline: %w", wrapped)

	var ce *apperr.ConfigError
	if !errors.As(doubleWrapped, &ce) {
		t.Fatal("errors.As should find ConfigError through double wrapping")
	}
	if ce.Message != "batch size must be positive, got 0" {
		t.Errorf("unexpected message %q", ce.Message)
	}
}

func TestParseError_CarriesLine(t *testing.T) {
	err := apperr.NewParse(3, fmt.Errorf("unexpected end of JSON input"))

	if err.Error() != "parse record at line 3: unexpected end of JSON input" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var pe *apperr.ParseError
	if !errors.As(fmt.Errorf("read: %w", err), &pe) {
		t.Fatal("errors.As should find ParseError")
	}
	if pe.Line != 3 {
		t.Errorf("expected line 3, got %d", pe.Line)
	}
}

func TestGenerationError_Message(t *testing.T) {
	err := apperr.NewGeneration(2, fmt.Errorf("service unavailable"))

	if err.Error() != "generate batch 2: service unavailable" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestTimeoutError_WrapsDeadline(t *testing.T) {
	err := apperr.NewTimeout("embed", 2*time.Second, context.DeadlineExceeded)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected TimeoutError to unwrap to context.DeadlineExceeded")
	}
	if err.Error() != "embed timed out after 2s: context deadline exceeded" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestKinds_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
	var ee *apperr.EmbeddingError
	if errors.As(wrapped, &ee) {
		t.Fatal("errors.As should NOT find EmbeddingError in plain error chain")
	}
	var je *apperr.JudgeParseError
	if errors.As(wrapped, &je) {
		t.Fatal("errors.As should NOT find JudgeParseError in plain error chain")
	}
}
