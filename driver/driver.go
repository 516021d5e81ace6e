package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/logging"
	"github.com/atelier-ai/atelier/tool"
)

// Options configure a Driver.
type Options struct {
	// PollInterval is the initial delay between run status fetches.
	PollInterval time.Duration
	// BackoffFactor multiplies the delay after each poll. 1.0 keeps the
	// interval fixed (the default behavior).
	BackoffFactor float64
	// MaxPollInterval bounds the delay growth when BackoffFactor > 1.
	MaxPollInterval time.Duration
	// MaxActionCycles caps how many requires_action cycles a single run
	// may undergo. 0 means unbounded.
	MaxActionCycles int
	// Logger receives structured progress logs; defaults to NoOpLogger.
	Logger logging.Logger
}

// Driver owns the polling state machine for in-flight run executions. A
// single Driver is shared by every agent level; it holds no per-run state
// and is safe for concurrent use, though the orchestration design never
// drives two runs on the same thread at once.
type Driver struct {
	svc core.AssistantService

	pollInterval    time.Duration
	backoffFactor   float64
	maxPollInterval time.Duration
	maxActionCycles int
	logger          logging.Logger
}

// New constructs a Driver over the given remote service with optional overrides.
func New(svc core.AssistantService, optFns ...func(o *Options)) *Driver {
	opts := Options{
		PollInterval:    time.Second,
		BackoffFactor:   1.0,
		MaxPollInterval: 30 * time.Second,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.BackoffFactor < 1.0 {
		opts.BackoffFactor = 1.0
	}
	if opts.MaxPollInterval < opts.PollInterval {
		opts.MaxPollInterval = opts.PollInterval
	}

	return &Driver{
		svc:             svc,
		pollInterval:    opts.PollInterval,
		backoffFactor:   opts.BackoffFactor,
		maxPollInterval: opts.MaxPollInterval,
		maxActionCycles: opts.MaxActionCycles,
		logger:          opts.Logger,
	}
}

// Drive appends message to the thread as a user entry, starts a run of the
// assistant and drives it to a terminal state, executing requested tools
// from registry along the way. It returns the text of the thread's most
// recent message once the run settles.
//
// Error semantics: an unregistered capability yields *UnknownToolError, a
// failed run yields *RunFailedError carrying the remote detail, and a tool
// execution error aborts the drive with any already computed outputs of the
// same batch discarded. None of these submit partial tool outputs.
func (d *Driver) Drive(ctx context.Context, threadID, assistantID string, registry tool.Registry, message string) (string, error) {
	if _, err := d.svc.AddUserMessage(ctx, threadID, message); err != nil {
		return "", fmt.Errorf("append user message: %w", err)
	}

	run, err := d.svc.CreateRun(ctx, threadID, assistantID)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}

	d.logger.Debug("driver.run.created", "run_id", run.ID, "thread_id", threadID, "assistant_id", assistantID)

	delay := d.pollInterval
	cycles := 0

	for {
		for run.Status.Pending() {
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
			delay = d.nextDelay(delay)

			if run, err = d.svc.GetRun(ctx, threadID, run.ID); err != nil {
				return "", fmt.Errorf("fetch run status: %w", err)
			}
			d.logger.Debug("driver.run.polled", "run_id", run.ID, "status", string(run.Status))
		}

		switch {
		case run.Status.ActionRequired():
			cycles++
			if d.maxActionCycles > 0 && cycles > d.maxActionCycles {
				return "", &CycleLimitError{RunID: run.ID, Limit: d.maxActionCycles}
			}

			outputs, err := d.executeCalls(ctx, registry, run)
			if err != nil {
				return "", err
			}

			// One submission covers every pending call id of this
			// cycle; partial batches violate the protocol.
			if run, err = d.svc.SubmitToolOutputs(ctx, threadID, run.ID, outputs); err != nil {
				return "", fmt.Errorf("submit tool outputs: %w", err)
			}
			delay = d.pollInterval

		case run.Status.Failed():
			d.logger.Error("driver.run.failed", "run_id", run.ID, "code", run.FailureCode, "detail", run.FailureDetail)
			return "", &RunFailedError{RunID: run.ID, Code: run.FailureCode, Detail: run.FailureDetail}

		default:
			msg, err := d.svc.LatestMessage(ctx, threadID)
			if err != nil {
				return "", fmt.Errorf("fetch final reply: %w", err)
			}
			d.logger.Debug("driver.run.settled", "run_id", run.ID, "status", string(run.Status), "cycles", cycles)
			return msg.Text, nil
		}
	}
}

// executeCalls resolves and invokes every pending tool call of the run in
// order, returning the collected outputs or the first fatal error.
func (d *Driver) executeCalls(ctx context.Context, registry tool.Registry, run core.RunView) ([]core.ToolOutput, error) {
	outputs := make([]core.ToolOutput, 0, len(run.PendingCalls))

	for _, call := range run.PendingCalls {
		impl, ok := registry.Resolve(call.Name)
		if !ok {
			return nil, &UnknownToolError{RunID: run.ID, Tool: call.Name}
		}

		args, err := decodeArgs(call.Arguments)
		if err != nil {
			return nil, fmt.Errorf("decode arguments for tool %s: %w", call.Name, err)
		}

		start := time.Now()
		result, err := impl.Call(ctx, args)
		if err != nil {
			d.logger.Error("driver.tool.error", "tool", call.Name, "call_id", call.ID, "error", err.Error())
			return nil, fmt.Errorf("tool %s: %w", call.Name, err)
		}

		d.logger.Info("driver.tool.executed", "tool", call.Name, "call_id", call.ID, "duration_ms", time.Since(start).Milliseconds())
		outputs = append(outputs, core.ToolOutput{CallID: call.ID, Output: result})
	}

	return outputs, nil
}

func (d *Driver) nextDelay(current time.Duration) time.Duration {
	if d.backoffFactor <= 1.0 {
		return current
	}
	next := time.Duration(float64(current) * d.backoffFactor)
	if next > d.maxPollInterval {
		return d.maxPollInterval
	}
	return next
}

// decodeArgs parses the JSON argument object of a tool call. The service
// already validated it against the declared schema.
func decodeArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// sleep waits for the given delay unless the context is cancelled first.
func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
