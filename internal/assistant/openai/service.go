// Package openai implements assistant.Service on top of the OpenAI
// Assistants API: a session is a thread and a turn is a run.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/assistant"
	"github.com/sachiniyer/order-assistant/internal/dispatch"
	"github.com/sachiniyer/order-assistant/internal/domain"
)

const DefaultModel = "gpt-4o"

type Config struct {
	APIKey string
	Model  string
	// AssistantID reuses an assistant that was configured out of band.
	AssistantID string
	BaseURL     string
}

type Service struct {
	client      openai.Client
	model       string
	assistantID string
	logger      *zap.SugaredLogger
}

func New(cfg Config, logger *zap.SugaredLogger) (*Service, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Service{
		client:      openai.NewClient(opts...),
		model:       model,
		assistantID: cfg.AssistantID,
		logger:      logger,
	}, nil
}

// Instructions is the system prompt given to the assistant, with the menu
// embedded as JSON.
func Instructions(menu *domain.Menu) (string, error) {
	b, err := json.MarshalIndent(menu, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal menu: %w", err)
	}
	return "You are an order management assistant. " +
		"Use the provided functions to manage the items in orders. " +
		"Every function returns the current order; items carry an itemStatus " +
		"telling you whether they are complete, incomplete or invalid and why. " +
		"Ask the customer for whatever an incomplete item is missing and fix invalid items." +
		"\n\n Use the following menu: \n\n" + string(b), nil
}

// EnsureAssistant creates the assistant with the menu and tool schemas unless
// an assistant id was configured.
func (s *Service) EnsureAssistant(ctx context.Context, menu *domain.Menu) (string, error) {
	if s.assistantID != "" {
		s.logger.Infow("using configured assistant", "assistant_id", s.assistantID)
		return s.assistantID, nil
	}

	instructions, err := Instructions(menu)
	if err != nil {
		return "", err
	}

	tools := make([]openai.AssistantToolUnionParam, 0, len(dispatch.Tools()))
	for _, tool := range dispatch.Tools() {
		tools = append(tools, openai.AssistantToolUnionParam{
			OfFunction: &openai.FunctionToolParam{
				Function: shared.FunctionDefinitionParam{
					Name:        tool.Name,
					Description: openai.String(tool.Description),
					Parameters:  shared.FunctionParameters(tool.Parameters),
				},
			},
		})
	}

	a, err := s.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        shared.ChatModel(s.model),
		Name:         openai.String("order-assistant"),
		Instructions: openai.String(instructions),
		Tools:        tools,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create assistant: %w", err)
	}

	s.assistantID = a.ID
	s.logger.Infow("assistant created", "assistant_id", a.ID, "model", s.model)

	return a.ID, nil
}

func (s *Service) CreateSession(ctx context.Context, greeting string) (string, error) {
	thread, err := s.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{
		Messages: []openai.BetaThreadNewParamsMessage{
			{
				Role:    "assistant",
				Content: openai.BetaThreadNewParamsMessageContentUnion{OfString: openai.String(greeting)},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (s *Service) PostUserMessage(ctx context.Context, session, text string) error {
	_, err := s.client.Beta.Threads.Messages.New(ctx, session, openai.BetaThreadMessageNewParams{
		Role:    "user",
		Content: openai.BetaThreadMessageNewParamsContentUnion{OfString: openai.String(text)},
	})
	return err
}

func (s *Service) StartTurn(ctx context.Context, session string) (string, error) {
	if s.assistantID == "" {
		return "", errors.New("assistant is not initialized")
	}
	run, err := s.client.Beta.Threads.Runs.New(ctx, session, openai.BetaThreadRunNewParams{
		AssistantID: s.assistantID,
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (s *Service) PollTurn(ctx context.Context, session, turn string) (assistant.TurnState, error) {
	run, err := s.client.Beta.Threads.Runs.Get(ctx, session, turn)
	if err != nil {
		return assistant.TurnState{}, err
	}

	state := assistant.TurnState{
		Status: assistant.TurnStatus(run.Status),
		Reason: run.LastError.Message,
	}
	if run.Status == openai.RunStatusRequiresAction {
		for _, call := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
			state.ToolCalls = append(state.ToolCalls, assistant.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
	}
	return state, nil
}

func (s *Service) SubmitToolOutputs(ctx context.Context, session, turn string, outputs []assistant.ToolOutput) error {
	params := openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, 0, len(outputs)),
	}
	for _, out := range outputs {
		params.ToolOutputs = append(params.ToolOutputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(out.CallID),
			Output:     openai.String(out.Output),
		})
	}
	_, err := s.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, session, turn, params)
	return err
}

// LatestMessage returns the text of the newest message on the thread when it
// was written by the assistant, and "" otherwise.
func (s *Service) LatestMessage(ctx context.Context, session string) (string, error) {
	page, err := s.client.Beta.Threads.Messages.List(ctx, session, openai.BetaThreadMessageListParams{
		Limit: openai.Int(1),
	})
	if err != nil {
		return "", err
	}
	if len(page.Data) == 0 {
		return "", nil
	}

	msg := page.Data[0]
	if msg.Role != openai.MessageRoleAssistant {
		return "", nil
	}
	for _, content := range msg.Content {
		if content.Type == "text" {
			return content.Text.Value, nil
		}
	}
	return "", nil
}
