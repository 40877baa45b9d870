// Package analysis turns parsed log records into aggregate statistics.
package analysis

import (
	"cmp"
	"slices"
	"time"

	"github.com/tinytelemetry/logsift/internal/model"
)

// Engine computes an AnalysisResult from records. It holds no state between
// runs and is safe for concurrent use once built.
type Engine struct {
	sourceGrouping bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSourceGrouping additionally groups error records by their source text
// into AnalysisResult.ErrorsBySourceName. ErrorsBySource is unaffected.
func WithSourceGrouping() Option {
	return func(e *Engine) {
		e.sourceGrouping = true
	}
}

// NewEngine creates an analysis engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze is a convenience wrapper around NewEngine(opts...).Analyze.
func Analyze(records []model.LogRecord, opts ...Option) model.AnalysisResult {
	return NewEngine(opts...).Analyze(records)
}

// Analyze aggregates records. Input order only affects tie order in
// TopErrors. Empty input yields zero counts and empty collections.
func (e *Engine) Analyze(records []model.LogRecord) model.AnalysisResult {
	result := model.AnalysisResult{
		TotalEntries:   len(records),
		TopErrors:      []model.ErrorGroup{},
		ErrorsOverTime: []model.BucketCount{},
		ErrorsBySource: []model.BucketCount{},
	}
	if e.sourceGrouping {
		result.ErrorsBySourceName = []model.SourceCount{}
	}

	groupIndex := map[string]int{}
	overTime := bucketCounts{}
	bySource := bucketCounts{}
	bySourceName := map[string]int{}

	for _, r := range records {
		switch {
		case r.Severity.IsError():
			result.ErrorCount++
		case r.Severity == model.SeverityWarning:
			result.WarningCount++
		case r.Severity == model.SeverityInfo:
			result.InfoCount++
		}
		if !r.Severity.IsError() {
			continue
		}

		signature := Normalize(r.Message)
		if i, ok := groupIndex[signature]; ok {
			g := &result.TopErrors[i]
			g.Count++
			if r.Timestamp.Before(g.FirstOccurrence) {
				g.FirstOccurrence = r.Timestamp
			}
			if r.Timestamp.After(g.LastOccurrence) {
				g.LastOccurrence = r.Timestamp
			}
		} else {
			groupIndex[signature] = len(result.TopErrors)
			result.TopErrors = append(result.TopErrors, model.ErrorGroup{
				Signature:       signature,
				Count:           1,
				FirstOccurrence: r.Timestamp,
				LastOccurrence:  r.Timestamp,
			})
		}

		bucket := r.Bucket()
		overTime.add(bucket)
		if r.Source != "" {
			bySource.add(bucket)
			bySourceName[r.Source]++
		}
	}

	// Stable sort keeps first-seen order among equal counts.
	slices.SortStableFunc(result.TopErrors, func(a, b model.ErrorGroup) int {
		return cmp.Compare(b.Count, a.Count)
	})
	result.ErrorsOverTime = append(result.ErrorsOverTime, overTime.sorted()...)
	result.ErrorsBySource = append(result.ErrorsBySource, bySource.sorted()...)

	if e.sourceGrouping {
		for source, count := range bySourceName {
			result.ErrorsBySourceName = append(result.ErrorsBySourceName, model.SourceCount{Source: source, Count: count})
		}
		slices.SortFunc(result.ErrorsBySourceName, func(a, b model.SourceCount) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Source, b.Source)
		})
	}

	return result
}

// bucketCounts counts records per hour bucket. Buckets are keyed by instant
// because time.Time map keys also compare the *Location pointer, and every
// parsed non-hour offset gets its own zone. The first bucket value seen for
// an instant is the one reported.
type bucketCounts map[int64]*model.BucketCount

func (b bucketCounts) add(bucket time.Time) {
	key := bucket.Unix()
	if c, ok := b[key]; ok {
		c.Count++
		return
	}
	b[key] = &model.BucketCount{Bucket: bucket, Count: 1}
}

// sorted flattens the counts in ascending time order.
func (b bucketCounts) sorted() []model.BucketCount {
	out := make([]model.BucketCount, 0, len(b))
	for _, c := range b {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(x, y model.BucketCount) int {
		return x.Bucket.Compare(y.Bucket)
	})
	return out
}
