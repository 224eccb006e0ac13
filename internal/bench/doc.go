// Package bench implements the open-loop rate-paced benchmark driver.
//
// The Engine runs a correctness smoke test against the storage client,
// then one campaign per target rate: a fixed-duration dispatch loop
// that launches one write→read→delete sequence per scheduled tick,
// without waiting for earlier sequences to finish. Offered load is
// therefore decoupled from backend response time (open-loop load
// generation).
//
// # Pacing
//
// Each campaign schedules N = rate × seconds sequences at deadlines
// exactly 1/rate apart. A deadline that has already passed when the
// loop reaches it is counted as missed and dispatch proceeds
// immediately; the schedule always advances from the previous deadline
// and is never resynchronized to the wall clock, so a persistent
// overload free-runs while the nominal schedule falls behind. That is
// intentional: the tool reports the miss rate, it never adapts.
//
// # Basic Usage
//
//	engine := bench.New(memstore.New(), bench.QuickPreset())
//	results, err := engine.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Print(r.Report())
//	}
//
// # Failure Model
//
// Backend errors and correctness violations (a read returning the
// wrong value, or a read succeeding after a delete) abort the whole
// run. There are no retries and no per-operation timeouts; dispatched
// sequences always run to completion and are joined even when the
// context is cancelled.
package bench
