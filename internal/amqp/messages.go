package amqp

import (
	"encoding/json"
	"time"
)

// SheetRefreshMessage asks the sync worker to re-pull one sheet from Google.
// Sheet may be empty, meaning every configured sheet.
type SheetRefreshMessage struct {
	Sheet     string    `json:"sheet,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSheetRefreshMessage(sheet, reason string) *SheetRefreshMessage {
	return &SheetRefreshMessage{
		Sheet:     sheet,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *SheetRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SheetRefreshMessageFromJSON(data []byte) (*SheetRefreshMessage, error) {
	var msg SheetRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
