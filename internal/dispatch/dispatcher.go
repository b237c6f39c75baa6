// Package dispatch applies assistant tool calls to an order.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/validation"
)

type Dispatcher struct {
	menu   *domain.Menu
	logger *zap.SugaredLogger
	newID  func() string
}

func New(menu *domain.Menu, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		menu:   menu,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Output is the tool result handed back to the assistant after a call.
type Output struct {
	OrderID string             `json:"orderId"`
	Items   []domain.OrderItem `json:"order"`
}

// Dispatch decodes and applies one tool call, then revalidates every item of
// the order. It returns the serialized order as the tool output.
func (d *Dispatcher) Dispatch(ctx context.Context, name, args string, order *domain.Order) (string, error) {
	d.logger.Debugw("dispatching function call", "order_id", order.ID, "function", name, "arguments", args)

	m, err := Decode(name, []byte(args))
	if err != nil {
		d.logger.Warnw("failed to decode function call", "order_id", order.ID, "function", name, "error", err)
		return "", err
	}

	if err := d.Apply(m, order); err != nil {
		d.logger.Warnw("failed to apply function call", "order_id", order.ID, "function", name, "error", err)
		return "", err
	}

	out, err := json.Marshal(Output{OrderID: order.ID, Items: order.Items})
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool output: %w", err)
	}

	d.logger.Infow("function call applied", "order_id", order.ID, "function", name, "items", len(order.Items))

	return string(out), nil
}

// Apply mutates the order and refreshes every item's verdict, since
// requirement rules can reference sibling options.
func (d *Dispatcher) Apply(m Mutation, order *domain.Order) error {
	if m == nil {
		return fmt.Errorf("%w: nil mutation", ErrUnknownFunction)
	}
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadArguments, m.Name(), err)
	}

	switch m := m.(type) {
	case AddItem:
		order.Items = append(order.Items, domain.OrderItem{
			ID:           d.newID(),
			ItemName:     m.ItemName,
			OptionKeys:   orEmpty(m.OptionKeys),
			OptionValues: orEmptyValues(m.OptionValues),
			Price:        *m.Price,
		})
	case RemoveItem:
		// removing an unknown id is a no-op
		if i := order.FindItem(m.ItemID); i >= 0 {
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
		}
	case ModifyItem:
		i := order.FindItem(m.ItemID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, m.ItemID)
		}
		item := &order.Items[i]
		item.ItemName = m.ItemName
		item.OptionKeys = orEmpty(m.OptionKeys)
		item.OptionValues = orEmptyValues(m.OptionValues)
		item.Price = *m.Price
	case ListItems:
		if m.Limit != nil && *m.Limit < len(order.Items) {
			order.Items = order.Items[:*m.Limit]
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownFunction, m)
	}

	d.revalidate(order)
	return nil
}

func (d *Dispatcher) revalidate(order *domain.Order) {
	for i := range order.Items {
		v := validation.Validate(order.Items[i], d.menu)
		order.Items[i].Status = &v
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyValues(s [][]string) [][]string {
	if s == nil {
		return [][]string{}
	}
	return s
}
