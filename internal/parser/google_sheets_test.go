package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

func TestParseRows(t *testing.T) {
	rows := [][]interface{}{
		{"Item", "Type", "Description", "Option", "Required", "Min", "Max", "Choice", "Price"},
		{"Burger", "entree", "Beef patty", "size", "TRUE", "1", "1", "small", "0"},
		{"", "", "", "", "", "", "", "large", "2.5"},
		{},
		{"Coffee", "drink", "", "style", "true", "1", "1", "black", ""},
		{"", "", "", "", "", "", "", "latte", "1"},
		{"", "", "", "milk", "style=latte", "1", "1", "oat", "0.5"},
		{"Fries", "side"},
	}

	menu, err := ParseRows(rows)
	require.NoError(t, err)
	require.NoError(t, menu.Check())

	require.Len(t, menu.Items, 3)

	burger, ok := menu.Find("Burger")
	require.True(t, ok)
	assert.Equal(t, "entree", burger.Type)
	assert.Equal(t, "Beef patty", burger.Description)
	assert.Equal(t, domain.OptionConfig{
		Required: domain.Required(),
		Minimum:  1,
		Maximum:  1,
		Choices:  map[string]domain.Choice{"small": {Price: 0}, "large": {Price: 2.5}},
	}, burger.Options["size"])

	coffee, ok := menu.Find("Coffee")
	require.True(t, ok)
	assert.Equal(t, domain.DependentOn("style", "latte"), coffee.Options["milk"].Required)
	assert.Len(t, coffee.Options["style"].Choices, 2)

	fries, ok := menu.Find("Fries")
	require.True(t, ok)
	assert.Empty(t, fries.Options)
}

func TestParseRowsErrors(t *testing.T) {
	header := []interface{}{"Item"}

	tests := []struct {
		name string
		rows [][]interface{}
	}{
		{"option before item", [][]interface{}{header, {"", "", "", "size"}}},
		{"choice before option", [][]interface{}{header, {"Burger", "", "", "", "", "", "", "small"}}},
		{"bad minimum", [][]interface{}{header, {"Burger", "", "", "size", "TRUE", "one", "1"}}},
		{"bad required", [][]interface{}{header, {"Burger", "", "", "size", "maybe", "1", "1"}}},
		{"bad price", [][]interface{}{header, {"Burger", "", "", "size", "TRUE", "1", "1", "small", "free"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRows(tt.rows)
			assert.Error(t, err)
		})
	}
}
