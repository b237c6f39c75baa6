package domain

import "time"

// OrderEvent is published after every chat turn, successful or not.
type OrderEvent struct {
	EventType    string    `json:"event_type"`
	OrderID      string    `json:"order_id"`
	ThreadID     string    `json:"thread_id,omitempty"`
	Input        string    `json:"input"`
	Reply        string    `json:"reply,omitempty"`
	ItemCount    int       `json:"item_count"`
	MessageCount int       `json:"message_count"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

const (
	EventOrderStarted  = "order.started"
	EventTurnCompleted = "order.turn_completed"
	EventTurnFailed    = "order.turn_failed"
)
