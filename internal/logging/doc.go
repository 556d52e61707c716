// Package logging provides concrete implementations of the loadbench.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes prefixed lines to stderr with thread-safe output
//   - NullLogger: Discards all messages (useful for testing)
//   - RecordingLogger: Keeps messages in memory so tests can assert on them
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
