// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ledger

import (
	"time"

	"github.com/mus-format/mus-go/varint"
)

// Entry describes one completed indexing run for a document event.
type Entry struct {
	ChunkCount int       // chunks upserted for the document
	IndexedAt  time.Time // completion time, UTC
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *Entry) []byte {
	micros := entry.IndexedAt.UnixMicro()
	buf := make([]byte, varint.Int.Size(entry.ChunkCount)+varint.Int64.Size(micros))
	n := varint.Int.Marshal(entry.ChunkCount, buf)
	varint.Int64.Marshal(micros, buf[n:])
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*Entry, error) {
	chunkCount, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	return &Entry{
		ChunkCount: chunkCount,
		IndexedAt:  time.UnixMicro(micros).UTC(),
	}, nil
}
