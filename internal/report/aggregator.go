package report

import (
	"sync"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

// Snapshot is an immutable view of the rows produced so far.
type Snapshot struct {
	Seq  int                `json:"seq"`
	Rows []domain.ReportRow `json:"rows"`
	Done bool               `json:"done"`
}

type Subscriber func(Snapshot)

// Aggregator keeps the ordered report rows and publishes a fresh snapshot to
// every subscriber after each addition. Subscribers run synchronously on the
// adding goroutine, so they must not call back into Add.
type Aggregator struct {
	mu          sync.RWMutex
	rows        []domain.ReportRow
	done        bool
	subscribers map[int]Subscriber
	nextID      int
}

func NewAggregator() *Aggregator {
	return &Aggregator{subscribers: make(map[int]Subscriber)}
}

// Add flattens and appends one row, then publishes.
func (a *Aggregator) Add(pair domain.QAPair, response string, sim domain.SimilarityResult) domain.ReportRow {
	row := Flatten(pair, response, sim)
	a.AddRow(row)
	return row
}

func (a *Aggregator) AddRow(row domain.ReportRow) {
	a.mu.Lock()
	a.rows = append(a.rows, row)
	snap := a.snapshotLocked()
	subs := a.subscribersLocked()
	a.mu.Unlock()

	publish(subs, snap)
}

// Close marks the sequence complete and publishes a final snapshot.
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.done = true
	snap := a.snapshotLocked()
	subs := a.subscribersLocked()
	a.mu.Unlock()

	publish(subs, snap)
}

// Subscribe registers fn and returns a func that removes it.
func (a *Aggregator) Subscribe(fn Subscriber) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.subscribers[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subscribers, id)
	}
}

func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshotLocked()
}

func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.rows)
}

func (a *Aggregator) snapshotLocked() Snapshot {
	rows := make([]domain.ReportRow, len(a.rows))
	copy(rows, a.rows)
	return Snapshot{Seq: len(rows), Rows: rows, Done: a.done}
}

func (a *Aggregator) subscribersLocked() []Subscriber {
	subs := make([]Subscriber, 0, len(a.subscribers))
	for id := 0; id < a.nextID; id++ {
		if fn, ok := a.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func publish(subs []Subscriber, snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
