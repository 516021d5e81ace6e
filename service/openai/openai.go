// Package openai implements core.AssistantService using the OpenAI
// Assistants API (assistants, threads, runs, messages). It adapts atelier's
// normalized definitions and run snapshots into the SDK's parameter and
// response types and back.
package openai

import (
	"context"
	"fmt"

	"github.com/atelier-ai/atelier/core"
	"github.com/openai/openai-go"
)

// Options configure the service adapter.
type Options struct {
	// DefaultModel is used when an AssistantDef does not name a model.
	DefaultModel openai.ChatModel
}

// Service wraps the OpenAI client behind the core.AssistantService interface.
type Service struct {
	client *openai.Client
	opts   Options
}

var _ core.AssistantService = (*Service)(nil)

// NewService creates a Service using a client configured from the
// environment (OPENAI_API_KEY).
func NewService(optFns ...func(o *Options)) *Service {
	client := openai.NewClient()
	return NewServiceFromClient(&client, optFns...)
}

// NewServiceFromClient creates a Service from an existing client.
func NewServiceFromClient(client *openai.Client, optFns ...func(o *Options)) *Service {
	opts := Options{DefaultModel: openai.ChatModelGPT4o}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{client: client, opts: opts}
}

// CreateAssistant provisions a remote assistant with the definition's
// instructions and tool declarations.
func (s *Service) CreateAssistant(ctx context.Context, def core.AssistantDef) (string, error) {
	model := openai.ChatModel(def.Model)
	if def.Model == "" {
		model = s.opts.DefaultModel
	}

	params := openai.BetaAssistantNewParams{
		Model:        model,
		Name:         openai.String(def.Name),
		Instructions: openai.String(def.Instructions),
	}
	if def.Description != "" {
		params.Description = openai.String(def.Description)
	}
	for _, td := range def.Tools {
		params.Tools = append(params.Tools, openai.AssistantToolUnionParam{
			OfFunction: &openai.FunctionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        td.Name,
					Description: openai.String(td.Description),
					Parameters:  openai.FunctionParameters(td.Parameters),
				},
			},
		})
	}

	assistant, err := s.client.Beta.Assistants.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create assistant %s: %w", def.Name, err)
	}
	return assistant.ID, nil
}

// DeleteAssistant tears down a remote assistant.
func (s *Service) DeleteAssistant(ctx context.Context, assistantID string) error {
	if _, err := s.client.Beta.Assistants.Delete(ctx, assistantID); err != nil {
		return fmt.Errorf("delete assistant %s: %w", assistantID, err)
	}
	return nil
}

// CreateThread creates an empty conversation thread.
func (s *Service) CreateThread(ctx context.Context) (string, error) {
	thread, err := s.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

// AddUserMessage appends a user-authored message to the thread.
func (s *Service) AddUserMessage(ctx context.Context, threadID, text string) (string, error) {
	msg, err := s.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("append message to thread %s: %w", threadID, err)
	}
	return msg.ID, nil
}

// CreateRun starts a new run of the assistant against the thread.
func (s *Service) CreateRun(ctx context.Context, threadID, assistantID string) (core.RunView, error) {
	run, err := s.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	})
	if err != nil {
		return core.RunView{}, fmt.Errorf("create run on thread %s: %w", threadID, err)
	}
	return toRunView(run), nil
}

// GetRun re-fetches the current run snapshot.
func (s *Service) GetRun(ctx context.Context, threadID, runID string) (core.RunView, error) {
	run, err := s.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return core.RunView{}, fmt.Errorf("fetch run %s: %w", runID, err)
	}
	return toRunView(run), nil
}

// SubmitToolOutputs resumes a paused run with the full output batch.
func (s *Service) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) (core.RunView, error) {
	params := openai.BetaThreadRunSubmitToolOutputsParams{}
	for _, out := range outputs {
		params.ToolOutputs = append(params.ToolOutputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(out.CallID),
			Output:     openai.String(out.Output),
		})
	}

	run, err := s.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, params)
	if err != nil {
		return core.RunView{}, fmt.Errorf("submit tool outputs for run %s: %w", runID, err)
	}
	return toRunView(run), nil
}

// LatestMessage returns the most recently appended message of the thread.
func (s *Service) LatestMessage(ctx context.Context, threadID string) (core.Message, error) {
	page, err := s.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
		Limit: openai.Int(1),
	})
	if err != nil {
		return core.Message{}, fmt.Errorf("list messages of thread %s: %w", threadID, err)
	}
	if len(page.Data) == 0 {
		return core.Message{}, fmt.Errorf("thread %s has no messages", threadID)
	}

	msg := page.Data[0]
	return core.Message{ID: msg.ID, Role: string(msg.Role), Text: messageText(msg)}, nil
}

// toRunView normalizes an SDK run into the transport-agnostic snapshot the
// driver consumes.
func toRunView(run *openai.Run) core.RunView {
	view := core.RunView{
		ID:     run.ID,
		Status: core.RunStatus(run.Status),
	}

	for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
		view.PendingCalls = append(view.PendingCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	if run.Status == openai.RunStatusFailed {
		view.FailureCode = string(run.LastError.Code)
		view.FailureDetail = run.LastError.Message
	}
	return view
}

// messageText concatenates the text content blocks of a message.
func messageText(msg openai.Message) string {
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text.Value
		}
	}
	return text
}
