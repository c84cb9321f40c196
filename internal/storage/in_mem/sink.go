package in_mem

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/google/uuid"
)

type Sink struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID][]domain.ReportRow
}

func NewSink() *Sink {
	return &Sink{
		storage: make(map[uuid.UUID][]domain.ReportRow),
	}
}

// Write replaces any rows previously stored under runID.
func (s *Sink) Write(_ context.Context, runID uuid.UUID, rows []domain.ReportRow) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.storage[runID] = slices.Clone(rows)
	slog.Info("Saved report rows to in-memory storage", "run_id", runID, "rows", len(rows))
	return nil
}

func (s *Sink) Rows(runID uuid.UUID) ([]domain.ReportRow, bool) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	rows, ok := s.storage[runID]
	if !ok {
		return nil, false
	}
	return slices.Clone(rows), true
}

func (s *Sink) Runs() int {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return len(s.storage)
}

func (s *Sink) Close() error {
	return nil
}
