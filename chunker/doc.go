// Package chunker splits document text into token-bounded, overlapping
// chunks suitable for an embedding model's context window.
//
// Chunk sizes are measured in cl100k_base BPE tokens rather than bytes or
// words so that downstream model limits are honored precisely. The splitter
// prefers natural boundaries (paragraphs, then lines, then sentences, then
// words) and only falls back to raw token windows when a piece of text has
// no usable boundary. Adjacent chunks share a configurable token overlap to
// preserve local context across chunk boundaries.
//
// Splitting is pure and deterministic: identical input and configuration
// always yield the identical chunk sequence.
package chunker
