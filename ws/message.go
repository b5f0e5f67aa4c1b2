package ws

import "encoding/json"

const MessageTypeNotification = "notification"

// Message - то, что уходит в сокет и в брокер между инстансами
type Message struct {
	Type   string          `json:"type"`
	UserID string          `json:"user_id"`
	Data   json.RawMessage `json:"data,omitempty"`
}
