package queue

import (
	"testing"

	"github.com/poiesic/textindexer/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() *core.IndexMessage {
	return &core.IndexMessage{
		Metadata: core.MessageMetadata{Source: "file_data"},
		Data: []core.DocumentEvent{
			{
				ObjectID:              "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26",
				OriginatingObjectID:   "ba7816bf-8f01-4fa7-b2e5-57e2b6b2c3d4",
				OriginatingObjectPath: "/share/docs/report.docx",
			},
		},
	}
}

func TestNewIndexTask_Roundtrip(t *testing.T) {
	task, err := NewIndexTask(testMessage())
	require.NoError(t, err)
	assert.Equal(t, TypeIndexPlaintext, task.Type())

	decoded, err := DecodeIndexMessage(task.Payload())
	require.NoError(t, err)
	assert.Equal(t, "file_data", decoded.Metadata.Source)
	require.Len(t, decoded.Data, 1)
	assert.Equal(t, "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26", decoded.Data[0].ObjectID)
	assert.Equal(t, "/share/docs/report.docx", decoded.Data[0].OriginatingObjectPath)
}

func TestNewIndexTask_RejectsEmptySource(t *testing.T) {
	msg := testMessage()
	msg.Metadata.Source = ""

	_, err := NewIndexTask(msg)
	assert.ErrorIs(t, err, core.ErrInvalidIndexMessage)
}

func TestDecodeIndexMessage_MalformedJSON(t *testing.T) {
	_, err := DecodeIndexMessage([]byte("{not json"))
	assert.ErrorIs(t, err, core.ErrInvalidIndexMessage)
}

func TestDecodeIndexMessage_MissingSource(t *testing.T) {
	_, err := DecodeIndexMessage([]byte(`{"metadata":{},"data":[]}`))
	assert.ErrorIs(t, err, core.ErrInvalidIndexMessage)
	assert.ErrorIs(t, err, core.ErrEmptySource)
}

func TestDecodeIndexMessage_NilDataNormalizes(t *testing.T) {
	decoded, err := DecodeIndexMessage([]byte(`{"metadata":{"source":"file_data"}}`))
	require.NoError(t, err)
	require.NotNil(t, decoded.Data)
	assert.Empty(t, decoded.Data)
}

func TestDecodeIndexMessage_MalformedEventPassesThrough(t *testing.T) {
	// Events are validated during processing, not at decode time, so a bad
	// object ID must not reject the message or its sibling events.
	payload := []byte(`{
		"metadata": {"source": "file_data"},
		"data": [
			{"object_id": "not-a-uuid"},
			{"object_id": "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26"}
		]
	}`)

	decoded, err := DecodeIndexMessage(payload)
	require.NoError(t, err)
	require.Len(t, decoded.Data, 2)
	assert.Equal(t, "not-a-uuid", decoded.Data[0].ObjectID)
}
