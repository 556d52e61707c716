// Package loader runs the CSV bulk-insert benchmark.
//
// Rows are read from a Source, grouped into fixed-size batches and written
// through a Store, one multi-row INSERT per batch in its own transaction.
// After every committed batch, including a final partial one, the Recorder
// takes exactly one memory and CPU sample. Sampling is never timer-driven,
// so the number of samples always equals ceil(rows / batch size).
//
// Database errors abort the run and are wrapped with loadbench.ErrInsertFailed;
// nothing is retried.
package loader
