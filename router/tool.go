package router

import (
	"context"
	"fmt"

	"github.com/atelier-ai/atelier/tool"
)

// SendMessageToolName is the capability name under which routing is exposed
// to the orchestrator agent.
const SendMessageToolName = "send_message"

// sendMessageTool exposes Router.Route as a declared capability so an
// orchestrating agent can relay messages to specialists. When the
// orchestrator's run pauses on this call, the dispatch loop invokes Route,
// which drives a full nested run of the target agent; the outer run stays
// paused remotely until the reply is submitted as the tool output.
type sendMessageTool struct {
	router *Router
}

// Tool returns the routing capability backed by this router.
func (r *Router) Tool() tool.Tool { return &sendMessageTool{router: r} }

func (t *sendMessageTool) Name() string { return SendMessageToolName }

func (t *sendMessageTool) Description() string {
	return "Send a message to a named specialist agent and return its reply. Use when a task is better handled by another agent."
}

func (t *sendMessageTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent_name": map[string]any{"type": "string", "description": "Name of the target agent"},
			"query":      map[string]any{"type": "string", "description": "Message to deliver to the agent"},
		},
		"required": []string{"agent_name", "query"},
	}
}

func (t *sendMessageTool) Call(ctx context.Context, args map[string]any) (string, error) {
	agentName, ok := args["agent_name"].(string)
	if !ok || agentName == "" {
		return "", fmt.Errorf("field 'agent_name' must be a non-empty string")
	}
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return "", fmt.Errorf("field 'query' must be a non-empty string")
	}
	return t.router.Route(ctx, agentName, query)
}
