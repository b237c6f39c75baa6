package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrBadArguments    = errors.New("bad function arguments")
	ErrItemNotFound    = errors.New("item not found")
)

// Function names as registered with the AI service.
const (
	FuncAddItem    = "add_item"
	FuncRemoveItem = "remove_item"
	FuncModifyItem = "modify_item"
	FuncListItems  = "list_items"
)

// Mutation is the closed set of order changes the assistant may request.
type Mutation interface {
	Name() string
	mutation()
}

type AddItem struct {
	ItemName     string     `json:"itemName" validate:"required"`
	OptionKeys   []string   `json:"optionKeys"`
	OptionValues [][]string `json:"optionValues"`
	Price        *float64   `json:"price" validate:"required,gte=0"`
}

type RemoveItem struct {
	ItemID string `json:"itemId" validate:"required"`
}

type ModifyItem struct {
	ItemID       string     `json:"itemId" validate:"required"`
	ItemName     string     `json:"itemName" validate:"required"`
	OptionKeys   []string   `json:"optionKeys"`
	OptionValues [][]string `json:"optionValues"`
	Price        *float64   `json:"price" validate:"required,gte=0"`
}

type ListItems struct {
	Limit *int `json:"limit" validate:"omitempty,gte=0"`
}

func (AddItem) Name() string    { return FuncAddItem }
func (RemoveItem) Name() string { return FuncRemoveItem }
func (ModifyItem) Name() string { return FuncModifyItem }
func (ListItems) Name() string  { return FuncListItems }

func (AddItem) mutation()    {}
func (RemoveItem) mutation() {}
func (ModifyItem) mutation() {}
func (ListItems) mutation()  {}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode turns a tool call name and its JSON arguments into a Mutation.
func Decode(name string, raw []byte) (Mutation, error) {
	var m Mutation
	switch name {
	case FuncAddItem:
		m = &AddItem{}
	case FuncRemoveItem:
		m = &RemoveItem{}
	case FuncModifyItem:
		m = &ModifyItem{}
	case FuncListItems:
		m = &ListItems{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadArguments, name, err)
	}
	if err := validate.Struct(m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadArguments, name, err)
	}

	switch v := m.(type) {
	case *AddItem:
		return *v, nil
	case *RemoveItem:
		return *v, nil
	case *ModifyItem:
		return *v, nil
	case *ListItems:
		return *v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
}
