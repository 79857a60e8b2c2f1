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


package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/poiesic/textindexer/core"
)

const (
	// TypeIndexPlaintext is the task type for plaintext indexing messages.
	TypeIndexPlaintext = "plaintext:index"

	// QueueDefault is the asynq queue indexing tasks are enqueued on.
	QueueDefault = "default"
)

// NewIndexTask builds an asynq task carrying an index message.
func NewIndexTask(msg *core.IndexMessage) (*asynq.Task, error) {
	if err := core.ValidateIndexMessage(msg); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TypeIndexPlaintext,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue(QueueDefault),
	), nil
}

// DecodeIndexMessage parses an index message from a task payload.
// A nil event list normalizes to an empty slice so handlers can range over it
// without a guard.
func DecodeIndexMessage(payload []byte) (*core.IndexMessage, error) {
	var msg core.IndexMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidIndexMessage, err)
	}
	if err := core.ValidateIndexMessage(&msg); err != nil {
		return nil, err
	}
	if msg.Data == nil {
		msg.Data = []core.DocumentEvent{}
	}
	return &msg, nil
}
