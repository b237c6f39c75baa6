package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderAudit struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID      string             `bson:"order_id" json:"order_id"`
	EventType    string             `bson:"event_type" json:"event_type"`
	Input        string             `bson:"input" json:"input"`
	Reply        string             `bson:"reply,omitempty" json:"reply,omitempty"`
	ItemCount    int                `bson:"item_count" json:"item_count"`
	MessageCount int                `bson:"message_count" json:"message_count"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
}
