package core

// RunStatus is the lifecycle state of a remote run as reported by the
// conversational service. The set mirrors the remote API; unrecognized
// values are still valid RunStatus strings and are classified by the
// predicate methods below.
type RunStatus string

const (
	// RunStatusQueued means the run is accepted but not yet executing.
	RunStatusQueued RunStatus = "queued"
	// RunStatusInProgress means the run is executing remotely.
	RunStatusInProgress RunStatus = "in_progress"
	// RunStatusRequiresAction means the run is paused waiting for local
	// tool outputs.
	RunStatusRequiresAction RunStatus = "requires_action"
	// RunStatusCancelling means a cancellation was requested but has not
	// completed yet.
	RunStatusCancelling RunStatus = "cancelling"
	// RunStatusCompleted means the run finished and produced a reply.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusFailed means the run terminated with a remote error.
	RunStatusFailed RunStatus = "failed"
	// RunStatusCancelled means the run was cancelled before completion.
	RunStatusCancelled RunStatus = "cancelled"
	// RunStatusExpired means the service abandoned the run (e.g. tool
	// outputs were not submitted in time).
	RunStatusExpired RunStatus = "expired"
	// RunStatusIncomplete means the run stopped early (e.g. token limits).
	RunStatusIncomplete RunStatus = "incomplete"
)

// Pending reports whether the run has not yet reached an actionable or
// terminal state and the caller should keep polling.
func (s RunStatus) Pending() bool {
	return s == RunStatusQueued || s == RunStatusInProgress || s == RunStatusCancelling
}

// ActionRequired reports whether the run is paused for local tool execution.
func (s RunStatus) ActionRequired() bool { return s == RunStatusRequiresAction }

// Failed reports whether the run terminated with a remote error.
func (s RunStatus) Failed() bool { return s == RunStatusFailed }

// ToolCall is a request embedded in a paused run, naming a capability and
// supplying its arguments as the raw JSON object string the service
// validated against the declared parameter schema.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput pairs a tool call id with the result string submitted back to
// resume a paused run. Every pending ToolCall of a run must receive exactly
// one ToolOutput, and all of them must be submitted in a single batch.
type ToolOutput struct {
	CallID string
	Output string
}

// RunView is a snapshot of a remote run: its identity, lifecycle status,
// any pending tool calls while paused, and failure details once failed.
// Runs are transient; a RunView is fetched, inspected and discarded.
type RunView struct {
	ID            string
	Status        RunStatus
	PendingCalls  []ToolCall
	FailureCode   string
	FailureDetail string
}
