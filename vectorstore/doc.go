// Package vectorstore defines the narrow indexing interface the pipeline
// writes through.
//
// The pipeline only ever performs one batched write per document: all chunk
// texts and their metadata records in a single call. Embedding happens behind
// the interface; the pipeline has no knowledge of the embedding or vector
// store technology in use. The production implementation lives in
// vectorstore/qdrant.
package vectorstore
