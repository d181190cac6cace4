package profiler

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"
)

// StageTimer records how long each pipeline stage takes, plus a handful of
// named values (mask coverage, output size) for the end-of-run report.
//
// A nil *StageTimer is valid and records nothing, so callers can pass one
// through unconditionally. It is safe for concurrent use.
type StageTimer struct {
	mu        sync.Mutex
	startTime time.Time

	// Insertion order of stages and metrics, for a stable report.
	order   []string
	metrics map[string]*MetricTracker

	operationTimes map[string]*TimeTracker
}

// MetricTracker tracks statistics for a named value.
type MetricTracker struct {
	name  string
	last  float64
	sum   float64
	count int64
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	name      string
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Stats is a snapshot of one stage's timings.
type Stats struct {
	Name  string
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Count int64
}

// NewStageTimer creates an empty timer.
//
// Returns:
// - A StageTimer whose uptime starts now.
func NewStageTimer() *StageTimer {
	return &StageTimer{
		startTime:      time.Now(),
		metrics:        make(map[string]*MetricTracker),
		operationTimes: make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
func (st *StageTimer) StartOperation(name string) func() {
	if st == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		st.recordOperationTime(name, time.Since(start))
	}
}

// recordOperationTime records the completion time of an operation.
func (st *StageTimer) recordOperationTime(name string, duration time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()

	tracker, exists := st.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{
			name:    name,
			minTime: duration,
			maxTime: duration,
		}
		st.operationTimes[name] = tracker
		st.order = append(st.order, name)
	}

	tracker.totalTime += duration
	tracker.count++

	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

// RecordMetric records a named value.
//
// Arguments:
// - name: The name of the metric
// - value: The metric value to record
func (st *StageTimer) RecordMetric(name string, value float64) {
	if st == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	tracker, exists := st.metrics[name]
	if !exists {
		tracker = &MetricTracker{name: name}
		st.metrics[name] = tracker
	}
	tracker.last = value
	tracker.sum += value
	tracker.count++
}

// Stats returns the timings recorded for name.
func (st *StageTimer) Stats(name string) (Stats, bool) {
	if st == nil {
		return Stats{}, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	tracker, ok := st.operationTimes[name]
	if !ok {
		return Stats{}, false
	}
	return Stats{
		Name:  tracker.name,
		Total: tracker.totalTime,
		Min:   tracker.minTime,
		Max:   tracker.maxTime,
		Count: tracker.count,
	}, true
}

// Metric returns the last value recorded for name.
func (st *StageTimer) Metric(name string) (float64, bool) {
	if st == nil {
		return 0, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	tracker, ok := st.metrics[name]
	if !ok {
		return 0, false
	}
	return tracker.last, true
}

// Report writes the stage timings, metrics and a memory snapshot to w.
func (st *StageTimer) Report(w io.Writer) {
	if st == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fmt.Fprintf(w, "PROFILE REPORT\n")
	fmt.Fprintf(w, "Elapsed: %v\n", time.Since(st.startTime).Truncate(time.Microsecond))

	if len(st.order) > 0 {
		fmt.Fprintf(w, "\nSTAGE TIMINGS:\n")
		for _, name := range st.order {
			tracker := st.operationTimes[name]
			avgTime := tracker.totalTime / time.Duration(tracker.count)
			fmt.Fprintf(w, "  %s: avg=%v, min=%v, max=%v, count=%d\n",
				name, avgTime.Truncate(time.Microsecond),
				tracker.minTime.Truncate(time.Microsecond),
				tracker.maxTime.Truncate(time.Microsecond),
				tracker.count)
		}
	}

	if len(st.metrics) > 0 {
		names := make([]string, 0, len(st.metrics))
		for name := range st.metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "\nMETRICS:\n")
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %.4g\n", name, st.metrics[name].last)
		}
	}

	fmt.Fprintf(w, "\nMEMORY USAGE:\n")
	fmt.Fprintf(w, "  Total Alloc: %s\n", formatBytes(memStats.TotalAlloc))
	fmt.Fprintf(w, "  Heap Alloc: %s\n", formatBytes(memStats.HeapAlloc))
	fmt.Fprintf(w, "  GC Cycles: %d\n", memStats.NumGC)
}

// formatBytes formats byte counts in human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
