// Package indexing implements the document indexing pipeline.
//
// A Processor handles one document event end to end: it validates the event,
// retrieves the plaintext artifact from the file store, splits the text into
// token-bounded chunks, attaches provenance metadata to every chunk, and
// upserts the whole batch into the vector store in a single call. A Handler
// wraps the Processor as an asynq task handler, processing the events of a
// message independently so one bad document never blocks its siblings, and
// always acknowledging the message once every event has had its attempt.
package indexing
