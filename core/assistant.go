package core

// ToolDef declares a single capability an assistant may request to have
// executed locally: a name, a short description shown to the model, and a
// JSON-Schema-like parameter map.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// AssistantDef is an immutable descriptor for a remote assistant resource.
// It is created once at startup via AssistantService.CreateAssistant and
// referenced by the returned identifier thereafter; it is never mutated.
type AssistantDef struct {
	// Name is the logical agent name used for routing (snake_case recommended).
	Name string
	// Description is a short human-readable summary of the agent's role.
	Description string
	// Model names the remote model backing the assistant.
	Model string
	// Instructions is the free-text behavioral instruction block.
	Instructions string
	// Tools lists the capabilities the assistant may call.
	Tools []ToolDef
}

// Message is a single entry of a thread's append-only message log.
type Message struct {
	ID   string
	Role string
	Text string
}
