package amqp

import (
	"encoding/json"
	"time"

	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
)

// DocumentSavedMessage tells the mirror worker a new revision is stored.
// It carries no document data; the worker reads the document from the
// primary store.
type DocumentSavedMessage struct {
	Revision  uint64    `json:"revision"`
	Size      int       `json:"size"`
	SavedAt   time.Time `json:"saved_at"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDocumentSavedMessage builds the message for a saved revision
func NewDocumentSavedMessage(ev planner.SavedEvent) *DocumentSavedMessage {
	return &DocumentSavedMessage{
		Revision:  ev.Revision,
		Size:      ev.Size,
		SavedAt:   ev.SavedAt,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DocumentSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DocumentSavedMessageFromJSON decodes a message body
func DocumentSavedMessageFromJSON(data []byte) (*DocumentSavedMessage, error) {
	var msg DocumentSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
