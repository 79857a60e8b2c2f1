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


// Package storage provides the blob storage abstraction for plaintext
// artifacts.
//
// The indexing pipeline retrieves extracted plaintext through the FileStore
// interface and never touches the storage engine directly. The production
// implementation lives in storage/gridfs; tests substitute inline doubles.
//
// # Constructor Return Type Pattern
//
// Public constructors (gridfs.NewStore) return the FileStore interface to
// enforce abstraction and keep the pipeline swappable across backends.
//
// # Resource Handling
//
// Download returns an io.ReadCloser. Callers own the handle and must Close
// it on every exit path, including early returns.
package storage
