// Package histogram aggregates latency samples into fixed logarithmic
// buckets and renders distribution summaries.
//
// Bucket upper edges follow 32·√2^k microseconds for k = 0..25,
// covering roughly 32µs to 185ms with even relative resolution, plus an
// unbounded overflow bucket. The edge table is computed once and shared
// read-only by every histogram.
//
// # Basic Usage
//
//	h := histogram.New()
//
//	start := time.Now()
//	// ... operation ...
//	h.Record(time.Since(start))
//
//	fmt.Print(h.RenderText("  "))
//
// # Invariants
//
// The sum of per-bucket deltas (including overflow) always equals the
// number of recorded samples, and cumulative counts are non-decreasing
// with edge index.
//
// # Thread Safety
//
// Record is mutex-guarded, so concurrent recorders may share one
// histogram. Percentile summaries come from an embedded HdrHistogram.
package histogram
