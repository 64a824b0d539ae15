package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricSeriesTotal   = "seriesfang.series.total"
	metricGroupDuration = "seriesfang.group.duration.seconds"
	metricErrorsTotal   = "seriesfang.errors.total"
	metricCacheHits     = "seriesfang.cache.hits.total"
	metricCacheMisses   = "seriesfang.cache.misses.total"

	attrGroup = "group"
)

// durationBucketBoundaries covers 1ms to 60s; extraction groups range
// from microsecond statistics to quadratic neighbor searches.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// ExtractionMetrics holds the OTel instruments for extraction runs.
type ExtractionMetrics struct {
	seriesTotal   metric.Int64Counter
	groupDuration metric.Float64Histogram
	errorsTotal   metric.Int64Counter
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
}

// NewExtractionMetrics creates the extraction instruments from the given meter.
func NewExtractionMetrics(mt metric.Meter) (*ExtractionMetrics, error) {
	b := newMetricBuilder(mt)

	em := &ExtractionMetrics{
		seriesTotal:   b.counter(metricSeriesTotal, "Total series analyzed", "{series}"),
		groupDuration: b.histogram(metricGroupDuration, "Per-group extraction duration in seconds", "s", durationBucketBoundaries...),
		errorsTotal:   b.counter(metricErrorsTotal, "Total extraction errors", "{error}"),
		cacheHits:     b.counter(metricCacheHits, "Report cache hits", "{hit}"),
		cacheMisses:   b.counter(metricCacheMisses, "Report cache misses", "{miss}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return em, nil
}

// RecordSeries counts one analyzed series. Safe on a nil receiver.
func (em *ExtractionMetrics) RecordSeries(ctx context.Context) {
	if em == nil {
		return
	}

	em.seriesTotal.Add(ctx, 1)
}

// RecordGroup records one group's extraction duration and outcome.
// Safe on a nil receiver.
func (em *ExtractionMetrics) RecordGroup(ctx context.Context, group string, duration time.Duration, err error) {
	if em == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrGroup, group))
	em.groupDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		em.errorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordCache counts a report cache lookup. Safe on a nil receiver.
func (em *ExtractionMetrics) RecordCache(ctx context.Context, hit bool) {
	if em == nil {
		return
	}

	if hit {
		em.cacheHits.Add(ctx, 1)
	} else {
		em.cacheMisses.Add(ctx, 1)
	}
}

// metricBuilder accumulates OTel instrument creation errors,
// enabling batch construction with a single error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

// newMetricBuilder creates a builder for the given meter.
func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

// counter creates an Int64Counter instrument.
func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

// histogram creates a Float64Histogram instrument with optional explicit bucket boundaries.
func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

// setErr records the first instrument creation error.
func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}
