package core

import "context"

// AssistantService is the request/response client interface to the remote
// conversational service. It is the only channel through which atelier
// touches assistants, threads, runs and messages; everything the service
// does internally (model inference, tool-call decisions, message storage)
// is opaque behind it.
//
// Implementations must be safe for use from multiple goroutines. The local
// design never starts two concurrent runs on the same thread; the service
// enforces that remotely as well.
type AssistantService interface {
	// CreateAssistant provisions a remote assistant resource from an
	// immutable definition and returns its opaque identifier.
	CreateAssistant(ctx context.Context, def AssistantDef) (string, error)

	// DeleteAssistant tears down a previously created assistant.
	DeleteAssistant(ctx context.Context, assistantID string) error

	// CreateThread creates an empty conversation thread and returns its
	// opaque handle.
	CreateThread(ctx context.Context) (string, error)

	// AddUserMessage appends a user-authored message to the thread.
	AddUserMessage(ctx context.Context, threadID, text string) (string, error)

	// CreateRun starts a new run of the assistant against the thread's
	// current message log and returns its initial snapshot.
	CreateRun(ctx context.Context, threadID, assistantID string) (RunView, error)

	// GetRun re-fetches the current snapshot of an in-flight run.
	GetRun(ctx context.Context, threadID, runID string) (RunView, error)

	// SubmitToolOutputs resumes a paused run with one output per pending
	// tool call. The batch must cover every call id of the current
	// requires_action cycle; partial submissions violate the protocol.
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (RunView, error)

	// LatestMessage returns the most recently appended message of the
	// thread, i.e. the assistant's final reply after a completed run.
	LatestMessage(ctx context.Context, threadID string) (Message, error)
}
