// Package router resolves logical agent names to their remote assistant and
// conversation thread, creating the thread lazily on first use, and exposes
// the single "send message to named agent" operation the orchestrator uses
// as a callable tool. Routing to an agent delegates to the shared run
// driver, so nested agent-to-agent calls run through the exact same state
// machine as the top-level request.
package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/driver"
	"github.com/atelier-ai/atelier/logging"
	"github.com/atelier-ai/atelier/tool"
	"github.com/atelier-ai/atelier/transcript"
)

// Options configure a Router.
type Options struct {
	// Recorder receives every successful exchange; defaults to Discard.
	Recorder transcript.Recorder
	// Logger receives structured routing logs; defaults to NoOpLogger.
	Logger logging.Logger
}

type entry struct {
	def         core.AssistantDef
	assistantID string
	threadID    string
	registry    tool.Registry
}

// Router maps logical agent names to (assistant, thread) pairs. The mapping
// is static after registration except for the lazily attached thread handle,
// which is the only mutable state and is guarded by the mutex.
type Router struct {
	svc core.AssistantService
	drv *driver.Driver

	mu     sync.Mutex
	agents map[string]*entry

	recorder transcript.Recorder
	logger   logging.Logger
}

// New constructs a Router over the remote service and run driver.
func New(svc core.AssistantService, drv *driver.Driver, optFns ...func(o *Options)) *Router {
	opts := Options{
		Recorder: transcript.Discard{},
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Router{
		svc:      svc,
		drv:      drv,
		agents:   make(map[string]*entry),
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
}

// Register adds a named agent backed by an already created remote assistant,
// building its capability registry from the given tools. Registering the
// same name twice is a configuration error.
func (r *Router) Register(def core.AssistantDef, assistantID string, tools ...tool.Tool) error {
	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		return fmt.Errorf("agent %s: %w", def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[def.Name]; exists {
		return fmt.Errorf("agent %s already registered", def.Name)
	}
	r.agents[def.Name] = &entry{def: def, assistantID: assistantID, registry: registry}
	return nil
}

// Names returns the registered agent names.
func (r *Router) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	return names
}

// Route sends query to the named agent and returns its reply.
//
// An unknown agent name is not an error: the caller is usually another
// agent mid-conversation, so the miss is reported as a textual result it
// can adapt to, and the run driver is never invoked. For known agents the
// conversation thread is created on first use and reused for every
// subsequent call, preserving context across routing calls.
func (r *Router) Route(ctx context.Context, agentName, query string) (string, error) {
	r.mu.Lock()
	e, ok := r.agents[agentName]
	if !ok {
		r.mu.Unlock()
		r.logger.Warn("router.unknown_agent", "agent", agentName)
		return fmt.Sprintf("Agent %q is not available. No action was taken.", agentName), nil
	}

	if e.threadID == "" {
		threadID, err := r.svc.CreateThread(ctx)
		if err != nil {
			r.mu.Unlock()
			return "", fmt.Errorf("create thread for agent %s: %w", agentName, err)
		}
		e.threadID = threadID
		r.logger.Debug("router.thread.created", "agent", agentName, "thread_id", threadID)
	}
	threadID, assistantID, registry := e.threadID, e.assistantID, e.registry
	r.mu.Unlock()

	r.logger.Info("router.route", "agent", agentName, "thread_id", threadID)

	reply, err := r.drv.Drive(ctx, threadID, assistantID, registry, query)
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", agentName, err)
	}

	r.recorder.Append(agentName, query, reply)
	return reply, nil
}
