// Package ledger records which document events have already been indexed.
//
// The queue delivers at least once, so a crash between processing and
// acknowledgment redelivers work that already reached the vector store. The
// ledger keys successfully indexed events by their content fingerprint; the
// processor consults it before retrieving a document and skips events it has
// already completed. The ledger is optional: without one the pipeline still
// behaves correctly because point IDs in the vector store are deterministic,
// it just repeats the embedding work.
package ledger
