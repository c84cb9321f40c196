package storage

import (
	"context"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/google/uuid"
)

// Sink persists the final rows of an evaluation run.
type Sink interface {
	Write(ctx context.Context, runID uuid.UUID, rows []domain.ReportRow) error
	Close() error
}

type Type string

const (
	None  Type = "none"
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

var Types = []Type{None, InMem, PG, ES}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

type SinkError string

const (
	ErrUnsupportedSink SinkError = "unsupported sink type: %s"
)

func (e SinkError) Error() string {
	return string(e)
}

// Discard drops every row. Used when no sink is configured.
type Discard struct{}

func (Discard) Write(context.Context, uuid.UUID, []domain.ReportRow) error { return nil }

func (Discard) Close() error { return nil }
