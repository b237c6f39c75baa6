package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

type Order struct {
	ID       string      `bson:"order_id" json:"orderId"`
	Items    []OrderItem `bson:"order" json:"order"`
	Messages []Message   `bson:"messages" json:"messages"`
	// ThreadID is the AI service conversation handle. It is set on the first
	// exchange and never cleared; the remote thread is not owned by the order.
	ThreadID  *string   `bson:"thread_id,omitempty" json:"threadId,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"-"`
}

type OrderItem struct {
	ID           string     `bson:"id" json:"id"`
	ItemName     string     `bson:"item_name" json:"itemName"`
	OptionKeys   []string   `bson:"option_keys" json:"optionKeys"`
	OptionValues [][]string `bson:"option_values" json:"optionValues"`
	Price        float64    `bson:"price" json:"price"`
	Status       *Verdict   `bson:"item_status,omitempty" json:"itemStatus,omitempty"`
}

func NewOrder(id string) *Order {
	now := time.Now()
	return &Order{
		ID:        id,
		Items:     []OrderItem{},
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (o *Order) HasThread() bool {
	return o.ThreadID != nil && *o.ThreadID != ""
}

func (o *Order) AddMessage(role Role, content string) {
	o.Messages = append(o.Messages, Message{Role: role, Content: content})
}

// FindItem returns the index of the item with the given id, or -1.
func (o *Order) FindItem(id string) int {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy that shares no slices with o.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.ThreadID != nil {
		id := *o.ThreadID
		c.ThreadID = &id
	}
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		for i, item := range o.Items {
			c.Items[i] = item.Clone()
		}
	}
	c.Messages = slices.Clone(o.Messages)
	return &c
}

func (i OrderItem) Clone() OrderItem {
	c := i
	c.OptionKeys = slices.Clone(i.OptionKeys)
	if i.OptionValues != nil {
		c.OptionValues = make([][]string, len(i.OptionValues))
		for k, values := range i.OptionValues {
			c.OptionValues[k] = slices.Clone(values)
		}
	}
	if i.Status != nil {
		v := *i.Status
		c.Status = &v
	}
	return c
}
