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


package indexing

import "github.com/poiesic/textindexer/core"

// BuildChunkMetadata returns n metadata records for the chunks of one
// document. Every record is identical: chunks inherit the provenance of the
// document they were cut from, and the fields pass through unchanged even
// when empty. The 1:1 count with the chunk slice is what keeps texts and
// metadata aligned through the upsert.
func BuildChunkMetadata(event *core.DocumentEvent, source string, n int) []core.ChunkMetadata {
	metadatas := make([]core.ChunkMetadata, n)
	for i := range metadatas {
		metadatas[i] = core.ChunkMetadata{
			Source:                source,
			ObjectID:              event.ObjectID,
			OriginatingObjectID:   event.OriginatingObjectID,
			OriginatingObjectPath: event.OriginatingObjectPath,
			OriginatingObjectPDF:  event.OriginatingObjectPDF,
		}
	}
	return metadatas
}
