package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
orchestrator: proxy_agent
poll_interval: 500ms
max_action_cycles: 8
agents:
  - name: proxy_agent
    model: gpt-4o
    instructions: You relay tasks to specialist agents.
  - name: dalle_assistant
    model: gpt-4o
    description: Generates images
    instructions: You create images from prompts.
    tools: [generate_image]
  - name: vision_assistant
    model: gpt-4o
    instructions: You critique images.
    tools: [analyze_image]
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "proxy_agent", cfg.Orchestrator)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval.Std())
	assert.Equal(t, 8, cfg.MaxActionCycles)
	require.Len(t, cfg.Agents, 3)

	dalle, ok := cfg.Agent("dalle_assistant")
	require.True(t, ok)
	assert.Equal(t, []string{"generate_image"}, dalle.Tools)

	specialists := cfg.Specialists()
	require.Len(t, specialists, 2)
	assert.Equal(t, "dalle_assistant", specialists[0].Name)
}

func TestParse_DefaultPollInterval(t *testing.T) {
	cfg, err := Parse([]byte(`
orchestrator: a
agents:
  - name: a
`))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.PollInterval.Std())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no agents", "orchestrator: a\n", "no agents"},
		{"missing orchestrator", "agents:\n  - name: a\n", "orchestrator not set"},
		{"unknown orchestrator", "orchestrator: b\nagents:\n  - name: a\n", "not in agent roster"},
		{"duplicate names", "orchestrator: a\nagents:\n  - name: a\n  - name: a\n", "duplicate agent name"},
		{"empty name", "orchestrator: a\nagents:\n  - name: a\n  - name: \"\"\n", "empty name"},
		{"bad poll interval", "orchestrator: a\npoll_interval: -1s\nagents:\n  - name: a\n", "poll_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atelier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "proxy_agent", cfg.Orchestrator)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
