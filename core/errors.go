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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocumentEvent indicates a DocumentEvent failed validation.
	ErrInvalidDocumentEvent = errors.New("invalid document event")

	// ErrInvalidIndexMessage indicates an IndexMessage failed validation.
	ErrInvalidIndexMessage = errors.New("invalid index message")

	// ErrInvalidObjectID indicates the object ID is not a well-formed UUID.
	ErrInvalidObjectID = errors.New("object id is not a valid UUID")

	// ErrEmptySource indicates the message-level source label is empty.
	ErrEmptySource = errors.New("source cannot be empty")
)
