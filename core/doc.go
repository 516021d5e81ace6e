// Package core provides the foundational domain types and the service
// interface used throughout atelier. It defines:
//
//   - AssistantDef / ToolDef (immutable remote agent descriptors)
//   - RunStatus and RunView (lifecycle of a single remote run)
//   - ToolCall / ToolOutput (the requires_action request/response pair)
//   - AssistantService (the narrow client interface to the remote
//     conversational service that owns assistants, threads and runs)
//
// The package intentionally keeps implementation concerns (the concrete
// remote backend, tool execution, orchestration) out of scope, exposing a
// small interface so backends and fakes can be swapped freely.
package core
