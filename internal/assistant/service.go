// Package assistant drives one conversational turn against a tool-calling AI
// service and applies the tool calls it requests to an order.
package assistant

import (
	"context"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

type TurnStatus string

const (
	TurnQueued         TurnStatus = "queued"
	TurnInProgress     TurnStatus = "in_progress"
	TurnCancelling     TurnStatus = "cancelling"
	TurnRequiresAction TurnStatus = "requires_action"
	TurnCompleted      TurnStatus = "completed"
	TurnFailed         TurnStatus = "failed"
	TurnCancelled      TurnStatus = "cancelled"
	TurnExpired        TurnStatus = "expired"
	TurnIncomplete     TurnStatus = "incomplete"
)

// ToolCall is a function invocation requested by the service.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

type ToolOutput struct {
	CallID string
	Output string
}

// TurnState is a snapshot of a running turn. ToolCalls is only populated
// when Status is TurnRequiresAction; Reason carries the service's error
// message for terminal failures.
type TurnState struct {
	Status    TurnStatus
	ToolCalls []ToolCall
	Reason    string
}

// Service is the AI conversation capability. Sessions and turns are opaque
// handles owned by the remote service.
type Service interface {
	CreateSession(ctx context.Context, greeting string) (string, error)
	PostUserMessage(ctx context.Context, session, text string) error
	StartTurn(ctx context.Context, session string) (string, error)
	PollTurn(ctx context.Context, session, turn string) (TurnState, error)
	SubmitToolOutputs(ctx context.Context, session, turn string, outputs []ToolOutput) error
	LatestMessage(ctx context.Context, session string) (string, error)
}

// Dispatcher applies a single tool call to the order and returns the text
// reported back to the service.
type Dispatcher interface {
	Dispatch(ctx context.Context, name, args string, order *domain.Order) (string, error)
}
