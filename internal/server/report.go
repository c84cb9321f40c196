package server

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/report"
	"github.com/Priyanshi1908/openQA.ai/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type RunStatus string

const (
	StatusPending RunStatus = "pending"
	StatusRunning RunStatus = "running"
	StatusDone    RunStatus = "done"
	StatusFailed  RunStatus = "failed"
)

// ReportView holds the latest aggregator snapshot for the HTTP handlers.
// Observe is meant to be registered with report.Aggregator.Subscribe.
type ReportView struct {
	mu     sync.RWMutex
	snap   report.Snapshot
	status RunStatus
	err    string

	genFailures []string
}

func NewReportView() *ReportView {
	return &ReportView{status: StatusPending}
}

func (v *ReportView) Observe(snap report.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if snap.Seq < v.snap.Seq {
		return
	}
	v.snap = snap
	if v.status == StatusFailed {
		return
	}
	if snap.Done {
		v.status = StatusDone
	} else {
		v.status = StatusRunning
	}
}

func (v *ReportView) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == StatusPending {
		v.status = StatusRunning
	}
}

func (v *ReportView) Fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = StatusFailed
	v.err = err.Error()
}

// SetGenerationFailures records the QA generation batches that failed.
func (v *ReportView) SetGenerationFailures(failures []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.genFailures = append([]string(nil), failures...)
}

func (v *ReportView) state() (report.Snapshot, RunStatus, string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap, v.status, v.err
}

func (v *ReportView) generationFailures() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.genFailures
}

type reportResponse struct {
	Status  RunStatus          `json:"status"`
	Error   string             `json:"error,omitempty"`
	Seq     int                `json:"seq"`
	Done    bool               `json:"done"`
	Summary report.Summary     `json:"summary"`
	Rows    []domain.ReportRow `json:"rows"`

	GenerationFailures []string `json:"generation_failures,omitempty"`
}

type ReportRouter struct {
	e    *echo.Echo
	view *ReportView
}

func NewReportRouter(e *echo.Echo, view *ReportView) *ReportRouter {
	return &ReportRouter{
		e:    e,
		view: view,
	}
}

func (r *ReportRouter) Bind() {
	g := r.e.Group("/api/v1/report")
	g.GET("", r.reportHandler)
	g.GET("/rows", r.rowsHandler)
}

func (r *ReportRouter) reportHandler(c echo.Context) error {
	snap, status, errMsg := r.view.state()

	rows := snap.Rows
	if rows == nil {
		rows = []domain.ReportRow{}
	}

	return c.JSON(http.StatusOK, reportResponse{
		Status:  status,
		Error:   errMsg,
		Seq:     snap.Seq,
		Done:    snap.Done,
		Summary: report.Summarize(rows),
		Rows:    rows,

		GenerationFailures: r.view.generationFailures(),
	})
}

func (r *ReportRouter) rowsHandler(c echo.Context) error {
	var req pagination.OffsetRequest

	var err error
	if req.Offset, err = intParam(c, "offset"); err != nil {
		return err
	}
	if req.Limit, err = intParam(c, "limit"); err != nil {
		return err
	}

	snap, _, _ := r.view.state()
	return c.JSON(http.StatusOK, pagination.Slice(snap.Rows, req))
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.NewValidation(name + " must be a non-negative integer")
	}
	return n, nil
}
