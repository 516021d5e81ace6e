package driver

import "fmt"

// UnknownToolError signals a broken agent/tool configuration: the run
// requested a capability with no registered local implementation. It is a
// programming error, not a retryable condition, and aborts the drive before
// any tool outputs are submitted.
type UnknownToolError struct {
	RunID string
	Tool  string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("no implementation registered for tool %q (run %s)", e.Tool, e.RunID)
}

// RunFailedError carries the remote failure detail of a run that reached
// the failed status. The drive is aborted without fetching messages and no
// automatic retry is attempted.
type RunFailedError struct {
	RunID  string
	Code   string
	Detail string
}

func (e *RunFailedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("run %s failed [%s]: %s", e.RunID, e.Code, e.Detail)
	}
	return fmt.Sprintf("run %s failed: %s", e.RunID, e.Detail)
}

// CycleLimitError is returned when a run exceeds the configured maximum
// number of requires_action cycles. The limit is an opt-in safety valve
// against runaway tool loops; the default behavior is unbounded.
type CycleLimitError struct {
	RunID string
	Limit int
}

func (e *CycleLimitError) Error() string {
	return fmt.Sprintf("run %s exceeded %d requires_action cycles", e.RunID, e.Limit)
}
