// Package config loads the studio configuration from YAML: the agent roster
// (names, models, instructions, tool names), which agent orchestrates, and
// the run driver's polling knobs. Tool names are resolved against an
// explicit capability table by the embedding application; config never
// instantiates tools itself.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML decoding of Go duration strings
// ("500ms", "2s") and bare numbers interpreted as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// AgentConfig describes one agent of the roster.
type AgentConfig struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Model        string   `yaml:"model"`
	Instructions string   `yaml:"instructions"`
	Tools        []string `yaml:"tools"`
}

// Config is the full studio configuration.
type Config struct {
	// Orchestrator names the agent that receives the user's message.
	Orchestrator string `yaml:"orchestrator"`
	// PollInterval is the run driver's delay between status fetches.
	PollInterval Duration `yaml:"poll_interval"`
	// MaxActionCycles caps requires_action cycles per run; 0 = unbounded.
	MaxActionCycles int `yaml:"max_action_cycles"`
	// Agents is the roster, orchestrator included.
	Agents []AgentConfig `yaml:"agents"`
}

// Default returns the baseline configuration applied underneath loaded files.
func Default() *Config {
	return &Config{
		PollInterval: Duration(time.Second),
	}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural consistency: agent names unique and non-empty,
// the orchestrator present in the roster, a sane poll interval.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("config: no agents defined")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive")
	}

	seen := make(map[string]struct{}, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("config: agent with empty name")
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("config: duplicate agent name %q", a.Name)
		}
		seen[a.Name] = struct{}{}
	}

	if c.Orchestrator == "" {
		return fmt.Errorf("config: orchestrator not set")
	}
	if _, ok := seen[c.Orchestrator]; !ok {
		return fmt.Errorf("config: orchestrator %q not in agent roster", c.Orchestrator)
	}
	return nil
}

// Agent returns the configuration of the named agent.
func (c *Config) Agent(name string) (AgentConfig, bool) {
	for _, a := range c.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return AgentConfig{}, false
}

// Specialists returns every agent except the orchestrator.
func (c *Config) Specialists() []AgentConfig {
	out := make([]AgentConfig, 0, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name != c.Orchestrator {
			out = append(out, a)
		}
	}
	return out
}
