package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for processed work items.
// It is generated from event content using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentEvent is one unit of indexing work. It references a plaintext
// artifact by object ID and carries provenance fields describing the source
// artifact the plaintext was derived from. Provenance fields are opaque and
// passed through to the vector store unchanged.
type DocumentEvent struct {
	ObjectID              string `json:"object_id"`
	OriginatingObjectID   string `json:"originating_object_id"`
	OriginatingObjectPath string `json:"originating_object_path"`
	OriginatingObjectPDF  string `json:"originating_object_converted_pdf"`
}

// Fingerprint returns a deterministic ID for this event under the given
// source label. Used as the idempotency ledger key: a redelivered event
// produces the same fingerprint.
func (e *DocumentEvent) Fingerprint(source string) ID {
	return IDFromContent(source + "|" + e.ObjectID + "|" + e.OriginatingObjectID)
}

// MessageMetadata carries fields shared by every event in one message.
type MessageMetadata struct {
	Source string `json:"source"`
}

// IndexMessage is the unit received from the queue: shared metadata plus an
// ordered sequence of document events. Data may be empty but is never nil
// after decoding; each event is processed independently.
type IndexMessage struct {
	Metadata MessageMetadata `json:"metadata"`
	Data     []DocumentEvent `json:"data"`
}

// ChunkMetadata is attached 1:1 to each chunk of a document's text.
// Every chunk belonging to the same DocumentEvent carries identical metadata.
type ChunkMetadata struct {
	Source                string `json:"source"`
	ObjectID              string `json:"object_id"`
	OriginatingObjectID   string `json:"originating_object_id"`
	OriginatingObjectPath string `json:"originating_object_path"`
	OriginatingObjectPDF  string `json:"originating_object_pdf"`
}
