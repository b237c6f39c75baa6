package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderIsEmpty(t *testing.T) {
	order := NewOrder("o-1")

	out, err := json.Marshal(order)
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":"o-1","order":[],"messages":[]}`, string(out))
	assert.False(t, order.HasThread())

	empty := ""
	order.ThreadID = &empty
	assert.False(t, order.HasThread())
}

func TestOrderClone(t *testing.T) {
	thread := "thread-1"
	status := Incomplete("too few options")
	order := NewOrder("o-1")
	order.ThreadID = &thread
	order.Items = append(order.Items, OrderItem{
		ID:           "i-1",
		ItemName:     "Fries",
		OptionKeys:   []string{"toppings"},
		OptionValues: [][]string{{"salt"}},
		Status:       &status,
	})
	order.AddMessage(RoleUser, "fries")

	c := order.Clone()
	require.Equal(t, order, c)

	c.Items[0].OptionValues[0][0] = "chili"
	c.Items[0].OptionKeys[0] = "size"
	c.Items[0].Status.Reason = "changed"
	*c.ThreadID = "thread-2"
	c.Messages[0].Content = "changed"

	assert.Equal(t, "salt", order.Items[0].OptionValues[0][0])
	assert.Equal(t, "toppings", order.Items[0].OptionKeys[0])
	assert.Equal(t, "too few options", order.Items[0].Status.Reason)
	assert.Equal(t, "thread-1", *order.ThreadID)
	assert.Equal(t, "fries", order.Messages[0].Content)

	var nilOrder *Order
	assert.Nil(t, nilOrder.Clone())
}

func TestOrderFindItem(t *testing.T) {
	order := NewOrder("o-1")
	order.Items = []OrderItem{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, 1, order.FindItem("b"))
	assert.Equal(t, -1, order.FindItem("c"))
}

func TestOrderItemJSON(t *testing.T) {
	status := Invalid("too many options")
	item := OrderItem{
		ID:           "i-1",
		ItemName:     "Fries",
		OptionKeys:   []string{"toppings"},
		OptionValues: [][]string{{"salt", "cheese", "chili"}},
		Price:        1.5,
		Status:       &status,
	}

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "i-1",
		"itemName": "Fries",
		"optionKeys": ["toppings"],
		"optionValues": [["salt", "cheese", "chili"]],
		"price": 1.5,
		"itemStatus": {"status": "invalid", "reason": "too many options"}
	}`, string(out))
}
