// Package storage defines the client contract a key-value backend must
// implement to be benchmarked.
//
// The contract is split into two roles to make the concurrency rules
// explicit in the type system:
//
//   - Client is the stateful singleton: one-time initialization and
//     unique-key generation. GenUniqueKey is a critical section and
//     implementations must serialize it internally.
//   - Handler is the stateless operation surface: Write / Read / Delete.
//     Handlers are cheap to construct and safe to share across any
//     number of goroutines.
//
// # Basic Usage
//
//	client := localfs.New("/tmp/iobench")
//	if err := client.Init(); err != nil {
//	    log.Fatal(err)
//	}
//
//	key := client.GenUniqueKey()
//	h := client.Handler()
//	if err := h.Write(key, "value"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Reporting
//
// Every backend failure is reported as a *Error carrying the operation
// name, the key involved and the underlying cause. Errors are always
// propagated to the caller, never swallowed.
package storage
