// Package driver implements the dispatch loop at the heart of atelier: a
// polling state machine that drives a single remote run of an assistant
// against a conversation thread, executes locally registered tools whenever
// the run pauses with requires_action, submits the outputs back in one
// batch, and returns the final reply text once the run settles.
//
// The loop is the only place latency is visible in the system. Polling uses
// a bounded, configurable delay and is cancellation-aware through the
// supplied context; busy-polling never occurs. Nested dispatch (a tool that
// itself drives another agent's run) re-enters the same Drive method, so
// the state machine is uniform across agent levels.
package driver
