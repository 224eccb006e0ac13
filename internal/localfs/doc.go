// Package localfs implements the storage client contract on top of the
// local filesystem.
//
// Each key maps directly to a file path under a per-run namespace
// directory, so two benchmark runs never collide even when they share
// the same root. Init creates the namespace directory, Write creates
// or overwrites the file, Read returns its full content, and Delete
// removes it. Reading a deleted key fails with a not-found error, which
// the driver relies on as a consistency check.
//
// # Basic Usage
//
//	client := localfs.New("/tmp/iobench")
//	if err := client.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	h := client.Handler()
//	err := h.Write(client.GenUniqueKey(), "payload")
//
// # Thread Safety
//
// GenUniqueKey is serialized by an internal mutex. Handlers are
// stateless and safe to share across goroutines.
package localfs
