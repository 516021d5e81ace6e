package tool

import "fmt"

// Registry maps capability names to their local implementations. It is
// built once per agent from that agent's tool set and is read-only
// afterwards; building it has no side effects.
type Registry map[string]Tool

// NewRegistry builds a registry from the given tools, rejecting duplicate
// capability names (two implementations for one name is a configuration
// error the remote service could never disambiguate).
func NewRegistry(tools ...Tool) (Registry, error) {
	reg := make(Registry, len(tools))
	for _, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("nil tool in registry")
		}
		if _, exists := reg[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		reg[t.Name()] = t
	}
	return reg, nil
}

// Resolve returns the implementation registered under name. The boolean is
// false when the capability has no local implementation; callers must treat
// that as a configuration error, never drop the call silently.
func (r Registry) Resolve(name string) (Tool, bool) {
	t, ok := r[name]
	return t, ok
}
