package amqp

import (
	"encoding/json"
	"time"
)

// NotificationMessage is the wire form of one dashboard notification.
type NotificationMessage struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MemberID    int64     `json:"member_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON decodes a message published by Client.Publish.
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
