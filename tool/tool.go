// Package tool implements the capability subsystem that lets remote
// assistants invoke local functions: a Tool interface with schema validated
// arguments, a FunctionTool adapter for plain Go functions, and a Registry
// mapping capability names to implementations for dispatch.
package tool

import (
	"context"
	"fmt"

	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/internal/util"
)

// Tool is a named, schema-described local operation an assistant may request
// be executed on its behalf while a run is paused with requires_action.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a proper JSON schema for parameters
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique capability identifier
	// (snake_case recommended).
	Name() string

	// Description returns a human-readable description provided to the
	// model so it understands when and how to use the tool.
	Description() string

	// Parameters returns a JSON-Schema-like map describing the expected
	// arguments. It is declared on the remote assistant so the service
	// can structurally validate arguments before issuing a tool call.
	Parameters() map[string]any

	// Call executes the tool with already decoded arguments and returns
	// the result string submitted back as the tool output.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// Def converts a Tool into the declaration sent to the remote service when
// the owning assistant is created.
func Def(t Tool) core.ToolDef {
	return core.ToolDef{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()}
}

// Defs converts a list of tools into their remote declarations.
func Defs(tools ...Tool) []core.ToolDef {
	defs := make([]core.ToolDef, len(tools))
	for i, t := range tools {
		defs[i] = Def(t)
	}
	return defs
}
