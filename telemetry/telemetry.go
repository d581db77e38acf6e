// Package telemetry collects hierarchical timings and item counts for the
// stages of reading, checking and writing SIE files.
//
// Collectors travel through the context so instrumented code never needs an
// extra parameter. When no collector is present every call is a no-op.
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "parse bokslut.se")
//	ctx = telemetry.WithRootTimer(ctx, timer)
//	// nested stages started from ctx appear under "parse bokslut.se"
//	timer.Count(4711, "records")
//	timer.End()
//
//	collector.Report(os.Stderr, output.NewStyles(os.Stderr))
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/sie/output"
)

type contextKey int

const (
	collectorKey contextKey = iota
	timerKey
)

// Collector gathers timings for one run.
type Collector interface {
	// Start begins a top-level timer.
	Start(name string) Timer

	// Report writes the collected tree to w. Styles may be nil.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single stage.
type Timer interface {
	// End stops the timer.
	End()

	// Child starts a timer nested under this one.
	Child(name string) Timer

	// Count attaches an item count to the stage, e.g. records read.
	// Repeated calls for the same unit accumulate.
	Count(n int, unit string)
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the collector carried by ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithRootTimer returns a context in which StartTimer nests new timers
// under timer.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, timerKey, timer)
}

// StartTimer starts a timer named name. It nests under the timer installed
// with WithRootTimer, if any, otherwise it starts on the context collector.
func StartTimer(ctx context.Context, name string) Timer {
	if parent, ok := ctx.Value(timerKey).(Timer); ok {
		return parent.Child(name)
	}
	return FromContext(ctx).Start(name)
}
