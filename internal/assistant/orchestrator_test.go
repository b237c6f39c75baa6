package assistant_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/assistant"
	"github.com/sachiniyer/order-assistant/internal/dispatch"
	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/menutest"
)

type fakeService struct {
	mu sync.Mutex

	polls   []assistant.TurnState
	reply   string
	pollErr error
	created []string
	posted  []string
	submits [][]assistant.ToolOutput
	started int
	pollN   int

	createErr error
	submitErr error
}

func (f *fakeService) CreateSession(_ context.Context, greeting string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, greeting)
	return "thread-1", nil
}

func (f *fakeService) PostUserMessage(_ context.Context, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, text)
	return nil
}

func (f *fakeService) StartTurn(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return "run-1", nil
}

func (f *fakeService) PollTurn(context.Context, string, string) (assistant.TurnState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollErr != nil {
		return assistant.TurnState{}, f.pollErr
	}
	if len(f.polls) == 0 {
		return assistant.TurnState{Status: assistant.TurnInProgress}, nil
	}
	i := f.pollN
	if i >= len(f.polls) {
		i = len(f.polls) - 1
	}
	f.pollN++
	return f.polls[i], nil
}

func (f *fakeService) SubmitToolOutputs(_ context.Context, _, _ string, outputs []assistant.ToolOutput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submits = append(f.submits, outputs)
	return nil
}

func (f *fakeService) LatestMessage(context.Context, string) (string, error) {
	return f.reply, nil
}

type transition struct {
	from, to assistant.Phase
}

func newOrchestrator(svc assistant.Service, transitions *[]transition) *assistant.Orchestrator {
	logger := zap.NewNop().Sugar()
	return assistant.NewOrchestrator(
		svc,
		dispatch.New(menutest.Burger(), logger),
		logger,
		assistant.WithPollInterval(time.Millisecond),
		assistant.WithTransitionHook(func(_ string, from, to assistant.Phase) {
			if transitions != nil {
				*transitions = append(*transitions, transition{from, to})
			}
		}),
	)
}

func requiresAction(calls ...assistant.ToolCall) assistant.TurnState {
	return assistant.TurnState{Status: assistant.TurnRequiresAction, ToolCalls: calls}
}

func status(s assistant.TurnStatus) assistant.TurnState {
	return assistant.TurnState{Status: s}
}

func TestFirstTurnOpensSession(t *testing.T) {
	svc := &fakeService{
		polls: []assistant.TurnState{status(assistant.TurnQueued), status(assistant.TurnInProgress), status(assistant.TurnCompleted)},
		reply: "What size would you like?",
	}
	var transitions []transition
	order := domain.NewOrder("order-1")

	err := newOrchestrator(svc, &transitions).ProcessTurn(context.Background(), order, "A burger please", "Main St")
	require.NoError(t, err)

	assert.Equal(t, []transition{
		{assistant.PhaseSessionInit, assistant.PhaseActive},
		{assistant.PhaseActive, assistant.PhasePolling},
		{assistant.PhasePolling, assistant.PhaseFinalizing},
		{assistant.PhaseFinalizing, assistant.PhaseDone},
	}, transitions)
	require.NotNil(t, order.ThreadID)
	assert.Equal(t, "thread-1", *order.ThreadID)
	assert.Equal(t, []string{"Welcome to Main St, what can I get started for you"}, svc.created)
	assert.Equal(t, []string{"A burger please"}, svc.posted)
	assert.Equal(t, []domain.Message{
		{Role: domain.RoleAssistant, Content: "Welcome to Main St, what can I get started for you"},
		{Role: domain.RoleUser, Content: "A burger please"},
		{Role: domain.RoleAssistant, Content: "What size would you like?"},
	}, order.Messages)
}

func TestLaterTurnReusesSession(t *testing.T) {
	svc := &fakeService{polls: []assistant.TurnState{status(assistant.TurnCompleted)}, reply: "Anything else?"}
	var transitions []transition
	order := domain.NewOrder("order-1")
	thread := "thread-existing"
	order.ThreadID = &thread

	err := newOrchestrator(svc, &transitions).ProcessTurn(context.Background(), order, "That's all", "Main St")
	require.NoError(t, err)

	assert.Empty(t, svc.created)
	assert.Equal(t, "thread-existing", *order.ThreadID)
	assert.Equal(t, assistant.PhaseActive, transitions[0].from)
	assert.Len(t, order.Messages, 2)
}

func TestRemovingUnknownItemCompletesTurn(t *testing.T) {
	svc := &fakeService{
		polls: []assistant.TurnState{
			requiresAction(assistant.ToolCall{ID: "call-1", Name: dispatch.FuncRemoveItem, Arguments: `{"itemId":"nonexistent"}`}),
			status(assistant.TurnCompleted),
		},
		reply: "Nothing to remove.",
	}
	order := domain.NewOrder("order-1")
	order.Items = append(order.Items, domain.OrderItem{ID: "a", ItemName: "Burger", OptionKeys: []string{"size"}, OptionValues: [][]string{{"small"}}, Price: 8})

	err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), order, "remove it", "Main St")
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "a", order.Items[0].ID)
	require.Len(t, svc.submits, 1)
	require.Len(t, svc.submits[0], 1)
	assert.Equal(t, "call-1", svc.submits[0][0].CallID)
	assert.JSONEq(t, `{"orderId":"order-1","order":[{"id":"a","itemName":"Burger","optionKeys":["size"],"optionValues":[["small"]],"price":8,"itemStatus":{"status":"complete","reason":"item is valid"}}]}`, svc.submits[0][0].Output)
}

func TestToolCallsAreBatched(t *testing.T) {
	svc := &fakeService{
		polls: []assistant.TurnState{
			requiresAction(
				assistant.ToolCall{ID: "call-1", Name: dispatch.FuncAddItem, Arguments: `{"itemName":"Burger","optionKeys":["size"],"optionValues":[["large"]],"price":10.5}`},
				assistant.ToolCall{ID: "call-2", Name: dispatch.FuncAddItem, Arguments: `{"itemName":"Burger","price":8}`},
			),
			status(assistant.TurnCompleted),
		},
		reply: "Added two burgers.",
	}
	order := domain.NewOrder("order-1")

	err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), order, "two burgers", "Main St")
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, domain.VerdictComplete, order.Items[0].Status.Status)
	assert.Equal(t, domain.Incomplete("required option missing size"), *order.Items[1].Status)
	require.Len(t, svc.submits, 1)
	require.Len(t, svc.submits[0], 2)
	assert.Equal(t, "call-1", svc.submits[0][0].CallID)
	assert.Equal(t, "call-2", svc.submits[0][1].CallID)
}

func TestRejectedToolCallIsReportedNotFatal(t *testing.T) {
	svc := &fakeService{
		polls: []assistant.TurnState{
			requiresAction(
				assistant.ToolCall{ID: "call-1", Name: "checkout", Arguments: `{}`},
				assistant.ToolCall{ID: "call-2", Name: dispatch.FuncModifyItem, Arguments: `{"itemId":"missing","itemName":"Burger","price":1}`},
			),
			status(assistant.TurnCompleted),
		},
		reply: "Sorry about that.",
	}
	order := domain.NewOrder("order-1")

	err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), order, "check out", "Main St")
	require.NoError(t, err)

	require.Len(t, svc.submits, 1)
	assert.Contains(t, svc.submits[0][0].Output, "unknown function")
	assert.Contains(t, svc.submits[0][1].Output, "item not found")
	assert.Empty(t, order.Items)
}

func TestRequiresActionWithoutCalls(t *testing.T) {
	svc := &fakeService{polls: []assistant.TurnState{requiresAction()}}
	order := domain.NewOrder("order-1")

	err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), order, "hi", "Main St")

	assert.ErrorIs(t, err, assistant.ErrProtocolViolation)
	assert.Empty(t, svc.submits)
}

func TestUpstreamFailureKeepsMutations(t *testing.T) {
	svc := &fakeService{
		polls: []assistant.TurnState{
			requiresAction(assistant.ToolCall{ID: "call-1", Name: dispatch.FuncAddItem, Arguments: `{"itemName":"Burger","price":8}`}),
			{Status: assistant.TurnFailed, Reason: "rate limit exceeded"},
		},
	}
	var transitions []transition
	order := domain.NewOrder("order-1")

	err := newOrchestrator(svc, &transitions).ProcessTurn(context.Background(), order, "a burger", "Main St")

	require.ErrorIs(t, err, assistant.ErrUpstreamFailed)
	var turnErr *assistant.TurnError
	require.True(t, errors.As(err, &turnErr))
	assert.Equal(t, assistant.TurnFailed, turnErr.Status)
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Len(t, order.Items, 1)
	assert.Equal(t, assistant.PhaseFailed, transitions[len(transitions)-1].to)
	// welcome and user message only
	assert.Len(t, order.Messages, 2)
}

func TestOtherTerminalStatusesFail(t *testing.T) {
	for _, s := range []assistant.TurnStatus{assistant.TurnCancelled, assistant.TurnExpired, assistant.TurnIncomplete, "unknown"} {
		t.Run(string(s), func(t *testing.T) {
			svc := &fakeService{polls: []assistant.TurnState{status(s)}}

			err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), domain.NewOrder("order-1"), "hi", "Main St")

			assert.ErrorIs(t, err, assistant.ErrUpstreamFailed)
		})
	}
}

func TestCancellingKeepsPolling(t *testing.T) {
	svc := &fakeService{
		polls: []assistant.TurnState{
			status(assistant.TurnInProgress),
			status(assistant.TurnCancelling),
			status(assistant.TurnCancelling),
			status(assistant.TurnCompleted),
		},
		reply: "Anything else?",
	}
	var transitions []transition
	order := domain.NewOrder("order-1")

	err := newOrchestrator(svc, &transitions).ProcessTurn(context.Background(), order, "hi", "Main St")
	require.NoError(t, err)

	assert.Equal(t, 4, svc.pollN)
	assert.Equal(t, []transition{
		{assistant.PhaseSessionInit, assistant.PhaseActive},
		{assistant.PhaseActive, assistant.PhasePolling},
		{assistant.PhasePolling, assistant.PhaseFinalizing},
		{assistant.PhaseFinalizing, assistant.PhaseDone},
	}, transitions)
	assert.Equal(t, "Anything else?", order.Messages[len(order.Messages)-1].Content)
}

func TestServiceErrorsAbortTurn(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("create session", func(t *testing.T) {
		svc := &fakeService{createErr: boom}
		order := domain.NewOrder("order-1")

		err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), order, "hi", "Main St")

		assert.ErrorIs(t, err, assistant.ErrService)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, order.ThreadID)
		assert.Empty(t, order.Messages)
	})

	t.Run("poll", func(t *testing.T) {
		svc := &fakeService{pollErr: boom}

		err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), domain.NewOrder("order-1"), "hi", "Main St")

		assert.ErrorIs(t, err, assistant.ErrService)
		assert.Equal(t, 1, svc.started)
	})

	t.Run("submit", func(t *testing.T) {
		svc := &fakeService{
			polls:     []assistant.TurnState{requiresAction(assistant.ToolCall{ID: "c", Name: dispatch.FuncListItems, Arguments: `{}`})},
			submitErr: boom,
		}

		err := newOrchestrator(svc, nil).ProcessTurn(context.Background(), domain.NewOrder("order-1"), "hi", "Main St")

		assert.ErrorIs(t, err, assistant.ErrService)
	})
}

func TestCancelledContextStopsPolling(t *testing.T) {
	svc := &fakeService{polls: []assistant.TurnState{status(assistant.TurnInProgress)}}
	ctx, cancel := context.WithCancel(context.Background())
	logger := zap.NewNop().Sugar()
	orch := assistant.NewOrchestrator(svc, dispatch.New(menutest.Burger(), logger), logger,
		assistant.WithPollInterval(time.Hour),
		assistant.WithTransitionHook(func(_ string, _, to assistant.Phase) {
			if to == assistant.PhasePolling {
				cancel()
			}
		}),
	)

	err := orch.ProcessTurn(ctx, domain.NewOrder("order-1"), "hi", "Main St")

	assert.ErrorIs(t, err, assistant.ErrService)
	assert.ErrorIs(t, err, context.Canceled)
}
