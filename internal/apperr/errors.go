package apperr

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return format(e.Message, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ConfigError reports an invalid pipeline setting such as a non-positive batch size.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return format(e.Message, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func NewConfig(msg string) *ConfigError {
	return &ConfigError{Message: msg}
}

func NewConfigf(f string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(f, args...)}
}

// GenerationError is the failure of a single QA generation batch.
type GenerationError struct {
	Batch int
	Err   error
}

func (e *GenerationError) Error() string {
	return format(fmt.Sprintf("generate batch %d", e.Batch), e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewGeneration(batch int, err error) *GenerationError {
	return &GenerationError{Batch: batch, Err: err}
}

// ParseError points at a malformed line of a QA record stream. Line is zero-based.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return format(fmt.Sprintf("parse record at line %d", e.Line), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParse(line int, err error) *ParseError {
	return &ParseError{Line: line, Err: err}
}

type EmbeddingError struct {
	Message string
	Err     error
}

func (e *EmbeddingError) Error() string {
	return format(e.Message, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

func NewEmbedding(msg string) *EmbeddingError {
	return &EmbeddingError{Message: msg}
}

func NewEmbeddingWrap(msg string, err error) *EmbeddingError {
	return &EmbeddingError{Message: msg, Err: err}
}

type JudgeParseError struct {
	Message string
	Err     error
}

func (e *JudgeParseError) Error() string {
	return format(e.Message, e.Err)
}

func (e *JudgeParseError) Unwrap() error {
	return e.Err
}

func NewJudgeParse(msg string, err error) *JudgeParseError {
	return &JudgeParseError{Message: msg, Err: err}
}

// TimeoutError is returned when an external call exceeds its budget.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return format(fmt.Sprintf("%s timed out after %s", e.Op, e.Timeout), e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

func NewTimeout(op string, timeout time.Duration, err error) *TimeoutError {
	return &TimeoutError{Op: op, Timeout: timeout, Err: err}
}

func format(msg string, err error) string {
	if err != nil {
		return msg + ": " + err.Error()
	}
	return msg
}
