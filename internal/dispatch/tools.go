package dispatch

// Tool describes one function exposed to the AI service. Parameters is a
// JSON schema matching the argument shape Decode accepts.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

var optionProperties = map[string]any{
	"optionKeys": map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "The options for the item.",
	},
	"optionValues": map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"description": "The chosen values for each option, in the same order as optionKeys.",
	},
	"price": map[string]any{
		"type":        "number",
		"description": "The price of the item.",
	},
}

func withOptions(props map[string]any) map[string]any {
	for k, v := range optionProperties {
		props[k] = v
	}
	return props
}

// Tools returns the function definitions for every supported mutation.
func Tools() []Tool {
	return []Tool{
		{
			Name:        FuncAddItem,
			Description: "Add an item to the order.",
			Parameters: map[string]any{
				"type": "object",
				"properties": withOptions(map[string]any{
					"itemName": map[string]any{"type": "string", "description": "The name of the item to add."},
				}),
				"required": []string{"itemName", "price"},
			},
		},
		{
			Name:        FuncRemoveItem,
			Description: "Remove an item from the order.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"itemId": map[string]any{"type": "string", "description": "The id of the order item to remove."},
				},
				"required": []string{"itemId"},
			},
		},
		{
			Name:        FuncModifyItem,
			Description: "Replace an item in the order. Fields not supplied are cleared.",
			Parameters: map[string]any{
				"type": "object",
				"properties": withOptions(map[string]any{
					"itemId":   map[string]any{"type": "string", "description": "The id of the order item to modify."},
					"itemName": map[string]any{"type": "string", "description": "The name of the item."},
				}),
				"required": []string{"itemId", "itemName", "price"},
			},
		},
		{
			Name:        FuncListItems,
			Description: "List the items in the order. When limit is given the order is truncated to its first limit items.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{"type": "integer", "minimum": 0, "description": "Number of items to keep."},
				},
			},
		},
	}
}
