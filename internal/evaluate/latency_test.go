package evaluate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeLatencyStats_Empty(t *testing.T) {
	stats := ComputeLatencyStats(nil)
	assert.Zero(t, stats.Min)
	assert.Zero(t, stats.Max)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.SampleCount)
	assert.NotNil(t, stats.Percentiles)
}

func TestComputeLatencyStats_SingleValue(t *testing.T) {
	stats := ComputeLatencyStats([]time.Duration{10 * time.Millisecond})

	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 10*time.Millisecond, stats.Max)
	assert.Equal(t, 10*time.Millisecond, stats.Median)
	assert.Equal(t, 1, stats.SampleCount)
	assert.Zero(t, stats.Stddev)
}

func TestComputeLatencyStats_Percentiles(t *testing.T) {
	durations := make([]time.Duration, 100)
	for i := range durations {
		durations[len(durations)-1-i] = time.Duration(i+1) * time.Millisecond
	}
	stats := ComputeLatencyStats(durations)

	assert.Equal(t, 1*time.Millisecond, stats.Min)
	assert.Equal(t, 100*time.Millisecond, stats.Max)
	assert.Equal(t, 100, stats.SampleCount)
	assert.InDelta(t, float64(50*time.Millisecond), float64(stats.P50()), float64(time.Millisecond))
	assert.InDelta(t, float64(90*time.Millisecond), float64(stats.P90()), float64(time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(stats.P99()), float64(time.Millisecond))
}
