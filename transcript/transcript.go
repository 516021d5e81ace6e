// Package transcript keeps a local, append-only record of the exchanges
// routed through the agent mesh. The remote service owns the authoritative
// conversation threads; the transcript exists so embedding applications can
// inspect, display or persist what happened during a session without extra
// remote calls.
package transcript

import (
	"sync"
	"time"

	"github.com/atelier-ai/atelier/internal/util"
)

// Exchange records one routed query and the reply it produced.
type Exchange struct {
	ID    string
	Agent string
	Query string
	Reply string
	At    time.Time
}

// Recorder is the minimal interface the router uses to record exchanges.
type Recorder interface {
	// Append records a completed exchange with the named agent.
	Append(agent, query, reply string)
	// History returns the exchanges recorded for the agent in order.
	History(agent string) []Exchange
	// All returns every exchange across agents in append order.
	All() []Exchange
}

// InMemory is a volatile Recorder storing exchanges in a process-local
// slice. It is safe for concurrent access; reads return copies so callers
// can never mutate internal state.
type InMemory struct {
	mu      sync.RWMutex
	entries []Exchange
}

// NewInMemory constructs an empty in-memory transcript.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Append records a completed exchange.
func (t *InMemory) Append(agent, query, reply string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Exchange{
		ID:    util.NewID(),
		Agent: agent,
		Query: query,
		Reply: reply,
		At:    time.Now(),
	})
}

// History returns the exchanges recorded for the agent in append order.
func (t *InMemory) History(agent string) []Exchange {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Exchange
	for _, e := range t.entries {
		if e.Agent == agent {
			out = append(out, e)
		}
	}
	return out
}

// All returns a snapshot of every recorded exchange.
func (t *InMemory) All() []Exchange {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Exchange, len(t.entries))
	copy(out, t.entries)
	return out
}

// Discard is a Recorder that keeps nothing. Used when the embedding
// application has no interest in local history.
type Discard struct{}

// Append drops the exchange.
func (Discard) Append(string, string, string) {}

// History always returns nil.
func (Discard) History(string) []Exchange { return nil }

// All always returns nil.
func (Discard) All() []Exchange { return nil }
