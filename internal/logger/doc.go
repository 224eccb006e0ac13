// Package logger provides a simple, thread-safe logging facility.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each log entry includes a timestamp, level, optional component tag,
// and message. Diagnostic output defaults to stderr so the benchmark
// report on stdout stays clean.
//
// # Basic Usage
//
// Using the default logger:
//
//	logger.Info("", "benchmark started")
//	logger.Info("bench", "campaign finished")
//	logger.Error("localfs", "init failed: %v", err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("bench", "dispatching sequence %d", i)
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
//
// ParseLevel converts the CLI/config representation ("debug", "info",
// "warn", "error") into a Level.
//
// # Thread Safety
//
// All logging operations are protected by a mutex and safe for concurrent use.
package logger
