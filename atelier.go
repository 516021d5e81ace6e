// Package atelier provides a high-level façade over the run driver, agent
// router and remote assistant service, enabling rapid construction of a
// small multi-agent studio: one orchestrator agent that receives the user's
// goal and relays sub-tasks to specialist agents via a routing tool. Most
// applications interact with this package by:
//  1. Creating a Studio via New() with an AssistantService backend and the
//     agent roster (the orchestrator gains the routing capability
//     automatically)
//  2. Sending user requests with Request()
//  3. Tearing down the remote assistants with Close()
//
// All defaults are safe for local development; production deployments
// typically supply a structured logger and tuned driver options.
package atelier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/driver"
	"github.com/atelier-ai/atelier/logging"
	"github.com/atelier-ai/atelier/router"
	"github.com/atelier-ai/atelier/tool"
	"github.com/atelier-ai/atelier/transcript"
)

// Agent bundles a remote assistant definition with the local tool
// implementations backing its declared capabilities. The definition's tool
// declarations are derived from the Tools slice at creation time, so the
// remote declaration and the local registry can never drift apart.
type Agent struct {
	Definition core.AssistantDef
	Tools      []tool.Tool
}

// Options configures a Studio.
type Options struct {
	// PollInterval is the run driver's delay between status fetches.
	PollInterval time.Duration
	// BackoffFactor grows the poll delay; 1.0 keeps it fixed.
	BackoffFactor float64
	// MaxPollInterval bounds the poll delay growth.
	MaxPollInterval time.Duration
	// MaxActionCycles caps requires_action cycles per run; 0 = unbounded.
	MaxActionCycles int
	// Recorder keeps the local exchange transcript (defaults to in-memory).
	Recorder transcript.Recorder
	// Logger receives structured logs (defaults to NoOpLogger).
	Logger logging.Logger
}

// Studio is the high-level façade aggregating the remote service, run
// driver and agent router for one conversation session.
type Studio struct {
	svc          core.AssistantService
	router       *router.Router
	recorder     transcript.Recorder
	logger       logging.Logger
	orchestrator string
	assistantIDs []string
}

// New provisions every agent remotely and wires the studio together. The
// orchestrator receives the router's send_message tool in addition to its
// own tools, which is how it reaches the specialists. On any provisioning
// error the assistants created so far are deleted before returning.
func New(ctx context.Context, svc core.AssistantService, orchestrator Agent, specialists []Agent, optFns ...func(o *Options)) (*Studio, error) {
	opts := Options{
		PollInterval:    time.Second,
		BackoffFactor:   1.0,
		MaxPollInterval: 30 * time.Second,
		Recorder:        transcript.NewInMemory(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	drv := driver.New(svc, func(o *driver.Options) {
		o.PollInterval = opts.PollInterval
		o.BackoffFactor = opts.BackoffFactor
		o.MaxPollInterval = opts.MaxPollInterval
		o.MaxActionCycles = opts.MaxActionCycles
		o.Logger = opts.Logger
	})

	s := &Studio{
		svc:          svc,
		router:       router.New(svc, drv, func(o *router.Options) { o.Recorder = opts.Recorder; o.Logger = opts.Logger }),
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		orchestrator: orchestrator.Definition.Name,
	}

	for _, agent := range specialists {
		if err := s.provision(ctx, agent); err != nil {
			return nil, s.abort(ctx, err)
		}
	}

	orchestrator.Tools = append(orchestrator.Tools, s.router.Tool())
	if err := s.provision(ctx, orchestrator); err != nil {
		return nil, s.abort(ctx, err)
	}

	return s, nil
}

// provision declares the agent's tools on its definition, creates the
// remote assistant and registers the agent with the router.
func (s *Studio) provision(ctx context.Context, agent Agent) error {
	def := agent.Definition
	def.Tools = tool.Defs(agent.Tools...)

	assistantID, err := s.svc.CreateAssistant(ctx, def)
	if err != nil {
		return fmt.Errorf("provision agent %s: %w", def.Name, err)
	}
	s.assistantIDs = append(s.assistantIDs, assistantID)
	s.logger.Info("studio.agent.provisioned", "agent", def.Name, "assistant_id", assistantID)

	return s.router.Register(def, assistantID, agent.Tools...)
}

// abort deletes whatever was provisioned before a setup failure.
func (s *Studio) abort(ctx context.Context, cause error) error {
	if err := s.Close(ctx); err != nil {
		s.logger.Warn("studio.abort.cleanup_failed", "error", err.Error())
	}
	return cause
}

// Request sends the user's message to the orchestrator agent and blocks
// until the full multi-agent exchange completes, returning the
// orchestrator's final reply. Calls are strictly sequential per studio;
// nested specialist runs happen inside this call.
func (s *Studio) Request(ctx context.Context, message string) (string, error) {
	return s.router.Route(ctx, s.orchestrator, message)
}

// Agents returns the registered agent names.
func (s *Studio) Agents() []string { return s.router.Names() }

// History returns the recorded exchanges for the named agent.
func (s *Studio) History(agent string) []transcript.Exchange {
	return s.recorder.History(agent)
}

// Close deletes every remote assistant the studio created. Deletion errors
// are joined rather than short-circuiting so one failure does not leak the
// remaining assistants.
func (s *Studio) Close(ctx context.Context) error {
	var errs []error
	for _, id := range s.assistantIDs {
		if err := s.svc.DeleteAssistant(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	s.assistantIDs = nil
	return errors.Join(errs...)
}
