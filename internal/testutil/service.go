package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/internal/util"
)

// RunScript describes one scripted run: the sequence of status frames the
// fake serves and the assistant reply appended to the thread once the run
// settles. Frame 0 is returned by CreateRun; each subsequent GetRun or
// SubmitToolOutputs call serves the next frame (the last frame repeats).
type RunScript struct {
	Frames []core.RunView
	Reply  string
}

// Frame is a convenience constructor for a scripted run status frame.
func Frame(status core.RunStatus, calls ...core.ToolCall) core.RunView {
	return core.RunView{Status: status, PendingCalls: calls}
}

type scriptedRun struct {
	threadID string
	script   RunScript
	frame    int
	replied  bool
}

// ScriptedService is a fake core.AssistantService driven by per-assistant
// run scripts. All exported record fields are safe to read once the calls
// under test have returned.
type ScriptedService struct {
	mu sync.Mutex

	scripts map[string][]RunScript
	runs    map[string]*scriptedRun
	runSeq  int

	// CreatedAssistants records assistant ids in creation order.
	CreatedAssistants []string
	// AssistantDefs holds the definition passed for each created assistant id.
	AssistantDefs map[string]core.AssistantDef
	// DeletedAssistants records assistant ids passed to DeleteAssistant.
	DeletedAssistants []string
	// CreatedThreads records thread ids in creation order.
	CreatedThreads []string
	// ThreadMessages holds the message log per thread.
	ThreadMessages map[string][]core.Message
	// Submissions records every SubmitToolOutputs batch.
	Submissions [][]core.ToolOutput
	// PollsByRun counts GetRun calls per run id.
	PollsByRun map[string]int
	// MessageFetches counts LatestMessage calls.
	MessageFetches int
	// FailCreateRun, when set, makes CreateRun return this error.
	FailCreateRun error
}

// NewScriptedService returns an empty fake with no scripted runs.
func NewScriptedService() *ScriptedService {
	return &ScriptedService{
		scripts:        make(map[string][]RunScript),
		runs:           make(map[string]*scriptedRun),
		AssistantDefs:  make(map[string]core.AssistantDef),
		ThreadMessages: make(map[string][]core.Message),
		PollsByRun:     make(map[string]int),
	}
}

// Script queues a run script for the given assistant id. Each CreateRun for
// that assistant consumes one queued script in FIFO order.
func (s *ScriptedService) Script(assistantID string, script RunScript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[assistantID] = append(s.scripts[assistantID], script)
}

// CreateAssistant returns a deterministic id derived from the definition
// name so tests can script runs before creation happens.
func (s *ScriptedService) CreateAssistant(_ context.Context, def core.AssistantDef) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "asst_" + def.Name
	s.CreatedAssistants = append(s.CreatedAssistants, id)
	s.AssistantDefs[id] = def
	return id, nil
}

// DeleteAssistant records the deletion.
func (s *ScriptedService) DeleteAssistant(_ context.Context, assistantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeletedAssistants = append(s.DeletedAssistants, assistantID)
	return nil
}

// CreateThread allocates a new thread handle.
func (s *ScriptedService) CreateThread(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("thread_%d", len(s.CreatedThreads)+1)
	s.CreatedThreads = append(s.CreatedThreads, id)
	s.ThreadMessages[id] = nil
	return id, nil
}

// AddUserMessage appends a user message to the thread log.
func (s *ScriptedService) AddUserMessage(_ context.Context, threadID, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ThreadMessages[threadID]; !ok {
		return "", fmt.Errorf("unknown thread %s", threadID)
	}
	msg := core.Message{ID: util.NewID(), Role: "user", Text: text}
	s.ThreadMessages[threadID] = append(s.ThreadMessages[threadID], msg)
	return msg.ID, nil
}

// CreateRun consumes the next queued script for the assistant and serves
// its first frame.
func (s *ScriptedService) CreateRun(_ context.Context, threadID, assistantID string) (core.RunView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreateRun != nil {
		return core.RunView{}, s.FailCreateRun
	}
	queue := s.scripts[assistantID]
	if len(queue) == 0 {
		return core.RunView{}, fmt.Errorf("no scripted run for assistant %s", assistantID)
	}
	script := queue[0]
	s.scripts[assistantID] = queue[1:]
	if len(script.Frames) == 0 {
		return core.RunView{}, fmt.Errorf("scripted run for assistant %s has no frames", assistantID)
	}

	s.runSeq++
	runID := fmt.Sprintf("run_%d", s.runSeq)
	run := &scriptedRun{threadID: threadID, script: script}
	s.runs[runID] = run
	return s.serveLocked(runID, run), nil
}

// GetRun advances to and serves the next frame.
func (s *ScriptedService) GetRun(_ context.Context, _ string, runID string) (core.RunView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return core.RunView{}, fmt.Errorf("unknown run %s", runID)
	}
	s.PollsByRun[runID]++
	run.advance()
	return s.serveLocked(runID, run), nil
}

// SubmitToolOutputs records the batch and serves the next frame.
func (s *ScriptedService) SubmitToolOutputs(_ context.Context, _ string, runID string, outputs []core.ToolOutput) (core.RunView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return core.RunView{}, fmt.Errorf("unknown run %s", runID)
	}
	batch := make([]core.ToolOutput, len(outputs))
	copy(batch, outputs)
	s.Submissions = append(s.Submissions, batch)
	run.advance()
	return s.serveLocked(runID, run), nil
}

// LatestMessage returns the most recent message of the thread.
func (s *ScriptedService) LatestMessage(_ context.Context, threadID string) (core.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MessageFetches++
	msgs := s.ThreadMessages[threadID]
	if len(msgs) == 0 {
		return core.Message{}, fmt.Errorf("thread %s has no messages", threadID)
	}
	return msgs[len(msgs)-1], nil
}

func (r *scriptedRun) advance() {
	if r.frame+1 < len(r.script.Frames) {
		r.frame++
	}
}

// serveLocked stamps the run id onto the current frame and, once the run
// settles on a terminal non-failed frame, appends the scripted assistant
// reply to the thread exactly once.
func (s *ScriptedService) serveLocked(runID string, run *scriptedRun) core.RunView {
	view := run.script.Frames[run.frame]
	view.ID = runID

	st := view.Status
	if !run.replied && !st.Pending() && !st.ActionRequired() && !st.Failed() {
		run.replied = true
		s.ThreadMessages[run.threadID] = append(s.ThreadMessages[run.threadID], core.Message{
			ID:   util.NewID(),
			Role: "assistant",
			Text: run.script.Reply,
		})
	}
	return view
}
