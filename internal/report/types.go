package report

import (
	"runtime"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

// Document is the persisted form of a finished run.
type Document struct {
	RunID    string             `json:"run_id"`
	Meta     RunMeta            `json:"meta"`
	Summary  Summary            `json:"summary"`
	Latency  LatencyStats       `json:"latency"`
	Rows     []domain.ReportRow `json:"rows"`
	Failures []string           `json:"failures,omitempty"`

	GenerationFailures []string `json:"generation_failures,omitempty"`
}

type RunMeta struct {
	Version     string          `json:"version"`
	Timestamp   time.Time       `json:"timestamp"`
	Source      string          `json:"source,omitempty"`
	Models      ModelInfo       `json:"models"`
	Schedule    string          `json:"schedule"`
	Environment EnvironmentInfo `json:"environment"`
}

type ModelInfo struct {
	Answer    string `json:"answer"`
	Judge     string `json:"judge"`
	Embedding string `json:"embedding"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type LatencyStats struct {
	Min         time.Duration         `json:"min"`
	Max         time.Duration         `json:"max"`
	Mean        time.Duration         `json:"mean"`
	Median      time.Duration         `json:"median"`
	Stddev      time.Duration         `json:"stddev"`
	Percentiles map[int]time.Duration `json:"percentiles"`
	SampleCount int                   `json:"sample_count"`
}

func (s LatencyStats) P50() time.Duration { return s.Percentiles[50] }
func (s LatencyStats) P90() time.Duration { return s.Percentiles[90] }
func (s LatencyStats) P99() time.Duration { return s.Percentiles[99] }
