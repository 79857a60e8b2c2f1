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

import "errors"

var (
	// ErrInvalidEvent classifies failures caused by a malformed document event.
	ErrInvalidEvent = errors.New("invalid document event")

	// ErrRetrieval classifies failures while fetching or reading the
	// plaintext artifact from the file store.
	ErrRetrieval = errors.New("document retrieval failed")

	// ErrIndexing classifies failures while embedding or upserting chunks
	// into the vector store.
	ErrIndexing = errors.New("document indexing failed")

	// ErrFileStoreRequired is returned when a file store is not provided.
	ErrFileStoreRequired = errors.New("file store required")

	// ErrIndexRequired is returned when a vector store index is not provided.
	ErrIndexRequired = errors.New("vector store index required")

	// ErrSplitterRequired is returned when a text splitter is not provided.
	ErrSplitterRequired = errors.New("text splitter required")

	// ErrProcessorRequired is returned when a processor is not provided.
	ErrProcessorRequired = errors.New("processor required")
)
