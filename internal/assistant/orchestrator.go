package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

// Phase is a state of the per-turn state machine.
type Phase int

const (
	PhaseSessionInit Phase = iota
	PhaseActive
	PhasePolling
	PhaseFinalizing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSessionInit:
		return "session_init"
	case PhaseActive:
		return "active"
	case PhasePolling:
		return "polling"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

const DefaultPollInterval = time.Second

// TransitionFunc observes phase changes of a turn.
type TransitionFunc func(orderID string, from, to Phase)

type Orchestrator struct {
	service      Service
	dispatcher   Dispatcher
	logger       *zap.SugaredLogger
	pollInterval time.Duration
	onTransition TransitionFunc
}

type Option func(*Orchestrator)

// WithPollInterval sets the wait between status checks of a running turn.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.pollInterval = d }
}

func WithTransitionHook(fn TransitionFunc) Option {
	return func(o *Orchestrator) { o.onTransition = fn }
}

func NewOrchestrator(service Service, dispatcher Dispatcher, logger *zap.SugaredLogger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		service:      service,
		dispatcher:   dispatcher,
		logger:       logger,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Welcome is the greeting that opens every conversation.
func Welcome(location string) string {
	return fmt.Sprintf("Welcome to %s, what can I get started for you", location)
}

// ProcessTurn runs one exchange to completion: it opens a session if the
// order has none, posts the message, starts a turn, executes the tool calls
// the service requests and appends the reply to the transcript.
//
// The order is mutated in place. Changes made by tool calls are kept when
// the turn fails, so callers should persist the order either way. The caller
// must not run two turns for the same order concurrently.
func (o *Orchestrator) ProcessTurn(ctx context.Context, order *domain.Order, message, location string) error {
	t := &turn{
		Orchestrator: o,
		order:        order,
		message:      message,
		location:     location,
		phase:        PhaseActive,
	}
	if !order.HasThread() {
		t.phase = PhaseSessionInit
	}
	return t.run(ctx)
}

type turn struct {
	*Orchestrator

	order    *domain.Order
	message  string
	location string

	phase  Phase
	runID  string
	polled bool
	err    error
}

func (t *turn) run(ctx context.Context) error {
	t.logger.Infow("turn started", "order_id", t.order.ID, "phase", t.phase)

	for {
		var next Phase
		switch t.phase {
		case PhaseSessionInit:
			next = t.initSession(ctx)
		case PhaseActive:
			next = t.activate(ctx)
		case PhasePolling:
			next = t.poll(ctx)
		case PhaseFinalizing:
			next = t.finalize(ctx)
		case PhaseDone:
			t.logger.Infow("turn completed", "order_id", t.order.ID, "items", len(t.order.Items))
			return nil
		case PhaseFailed:
			t.logger.Errorw("turn failed", "order_id", t.order.ID, "error", t.err)
			return t.err
		default:
			return fmt.Errorf("unknown turn phase %s", t.phase)
		}
		t.transition(next)
	}
}

func (t *turn) transition(next Phase) {
	if next == t.phase {
		return
	}
	t.logger.Debugw("turn transition", "order_id", t.order.ID, "from", t.phase, "to", next)
	if t.onTransition != nil {
		t.onTransition(t.order.ID, t.phase, next)
	}
	t.phase = next
}

func (t *turn) fail(kind error, status TurnStatus, err error) Phase {
	t.err = &TurnError{Kind: kind, Phase: t.phase, Status: status, Err: err}
	return PhaseFailed
}

func (t *turn) initSession(ctx context.Context) Phase {
	welcome := Welcome(t.location)

	session, err := t.service.CreateSession(ctx, welcome)
	if err != nil {
		return t.fail(ErrService, "", fmt.Errorf("failed to create session: %w", err))
	}

	t.order.AddMessage(domain.RoleAssistant, welcome)
	t.order.ThreadID = &session
	t.logger.Infow("session created", "order_id", t.order.ID, "thread_id", session)

	return PhaseActive
}

func (t *turn) activate(ctx context.Context) Phase {
	session := *t.order.ThreadID

	t.order.AddMessage(domain.RoleUser, t.message)
	if err := t.service.PostUserMessage(ctx, session, t.message); err != nil {
		return t.fail(ErrService, "", fmt.Errorf("failed to post message: %w", err))
	}

	runID, err := t.service.StartTurn(ctx, session)
	if err != nil {
		return t.fail(ErrService, "", fmt.Errorf("failed to start turn: %w", err))
	}
	t.runID = runID
	t.logger.Debugw("turn run started", "order_id", t.order.ID, "run_id", runID)

	return PhasePolling
}

func (t *turn) poll(ctx context.Context) Phase {
	if t.polled {
		if err := t.wait(ctx); err != nil {
			return t.fail(ErrService, "", err)
		}
	}
	t.polled = true

	session := *t.order.ThreadID
	state, err := t.service.PollTurn(ctx, session, t.runID)
	if err != nil {
		return t.fail(ErrService, "", fmt.Errorf("failed to poll turn: %w", err))
	}

	switch state.Status {
	case TurnCompleted:
		return PhaseFinalizing
	case TurnQueued, TurnInProgress, TurnCancelling:
		return PhasePolling
	case TurnRequiresAction:
		if len(state.ToolCalls) == 0 {
			return t.fail(ErrProtocolViolation, state.Status, errors.New("tool execution requested without tool calls"))
		}
		outputs := t.executeTools(ctx, state.ToolCalls)
		if err := t.service.SubmitToolOutputs(ctx, session, t.runID, outputs); err != nil {
			return t.fail(ErrService, state.Status, fmt.Errorf("failed to submit tool outputs: %w", err))
		}
		return PhasePolling
	default:
		var reason error
		if state.Reason != "" {
			reason = errors.New(state.Reason)
		}
		return t.fail(ErrUpstreamFailed, state.Status, reason)
	}
}

// executeTools runs the calls in the order given. A call the dispatcher
// rejects is reported to the service as an error output so the assistant
// can correct itself; it does not abort the turn.
func (t *turn) executeTools(ctx context.Context, calls []ToolCall) []ToolOutput {
	outputs := make([]ToolOutput, 0, len(calls))
	for _, call := range calls {
		out, err := t.dispatcher.Dispatch(ctx, call.Name, call.Arguments, t.order)
		if err != nil {
			t.logger.Warnw("tool call rejected", "order_id", t.order.ID, "call_id", call.ID, "function", call.Name, "error", err)
			out = errorOutput(err)
		}
		outputs = append(outputs, ToolOutput{CallID: call.ID, Output: out})
	}
	return outputs
}

func errorOutput(err error) string {
	b, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return `{"error":"tool call failed"}`
	}
	return string(b)
}

func (t *turn) wait(ctx context.Context) error {
	if t.pollInterval <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(t.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *turn) finalize(ctx context.Context) Phase {
	reply, err := t.service.LatestMessage(ctx, *t.order.ThreadID)
	if err != nil {
		return t.fail(ErrService, TurnCompleted, fmt.Errorf("failed to fetch reply: %w", err))
	}
	if reply == "" {
		t.logger.Warnw("turn completed without a reply", "order_id", t.order.ID)
		return PhaseDone
	}

	t.order.AddMessage(domain.RoleAssistant, reply)
	return PhaseDone
}
