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

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateDocumentEvent validates a DocumentEvent according to domain rules.
//
// Validation rules:
//   - ObjectID must parse as a well-formed UUID
//
// NOT validated (opaque pass-through fields):
//   - OriginatingObjectID, OriginatingObjectPath, OriginatingObjectPDF
//     (may be empty; forwarded to the vector store unchanged)
func ValidateDocumentEvent(event *DocumentEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidDocumentEvent)
	}

	if _, err := uuid.Parse(event.ObjectID); err != nil {
		return fmt.Errorf("%w: %w: %q", ErrInvalidDocumentEvent, ErrInvalidObjectID, event.ObjectID)
	}

	return nil
}

// ValidateIndexMessage validates an IndexMessage according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//
// The Data sequence is NOT validated here: events are validated individually
// during processing so a malformed event does not reject its siblings.
func ValidateIndexMessage(msg *IndexMessage) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidIndexMessage)
	}

	if msg.Metadata.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIndexMessage, ErrEmptySource)
	}

	return nil
}
