package atelier

import (
	"context"
	"testing"
	"time"

	"github.com/atelier-ai/atelier/artifact"
	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/imagery"
	"github.com/atelier-ai/atelier/internal/testutil"
	"github.com/atelier-ai/atelier/router"
	"github.com/atelier-ai/atelier/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSynthesizer struct{ prompts []string }

func (s *stubSynthesizer) Synthesize(_ context.Context, prompt string) ([]byte, error) {
	s.prompts = append(s.prompts, prompt)
	return []byte("png-bytes"), nil
}

func fastOpts(o *Options) {
	o.PollInterval = time.Millisecond
}

func proxyAgent() Agent {
	return Agent{Definition: core.AssistantDef{
		Name:         "proxy_agent",
		Model:        "gpt-4o",
		Instructions: "You are a personal assistant. Relay tasks to specialist agents and report back.",
	}}
}

func dalleAgent(synth imagery.Synthesizer, store artifact.Store) Agent {
	return Agent{
		Definition: core.AssistantDef{
			Name:         "dalle_assistant",
			Model:        "gpt-4o",
			Instructions: "You create images from prompts.",
		},
		Tools: []tool.Tool{imagery.NewGenerateTool(synth, store)},
	}
}

func TestStudio_EndToEndImageRequest(t *testing.T) {
	svc := testutil.NewScriptedService()

	// Orchestrator: thinks, asks the dalle assistant, then wraps up.
	svc.Script("asst_proxy_agent", testutil.RunScript{
		Frames: []core.RunView{
			testutil.Frame(core.RunStatusInProgress),
			testutil.Frame(core.RunStatusRequiresAction, core.ToolCall{
				ID:        "call_route",
				Name:      "send_message",
				Arguments: `{"agent_name":"dalle_assistant","query":"a red boat"}`,
			}),
			testutil.Frame(core.RunStatusCompleted),
		},
		Reply: "The artist delivered: here is your image",
	})

	// Specialist: immediately requests the image generation tool.
	svc.Script("asst_dalle_assistant", testutil.RunScript{
		Frames: []core.RunView{
			testutil.Frame(core.RunStatusRequiresAction, core.ToolCall{
				ID:        "call_gen",
				Name:      "generate_image",
				Arguments: `{"prompt":"a red boat"}`,
			}),
			testutil.Frame(core.RunStatusCompleted),
		},
		Reply: "here is your image",
	})

	synth := &stubSynthesizer{}
	store := artifact.NewInMemoryStore()

	studio, err := New(context.Background(), svc, proxyAgent(), []Agent{dalleAgent(synth, store)}, fastOpts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"proxy_agent", "dalle_assistant"}, studio.Agents())

	reply, err := studio.Request(context.Background(), "generate an image of a red boat")
	require.NoError(t, err)
	assert.Equal(t, "The artist delivered: here is your image", reply)

	// The generation tool ran with the routed prompt and stored the image.
	assert.Equal(t, []string{"a red boat"}, synth.prompts)
	_, data, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// One thread per agent; the nested run submitted before the outer one
	// resumed, and the specialist's reply flowed up as the routing tool's
	// output.
	assert.Len(t, svc.CreatedThreads, 2)
	require.Len(t, svc.Submissions, 2)
	require.Len(t, svc.Submissions[0], 1)
	assert.Equal(t, "call_gen", svc.Submissions[0][0].CallID)
	require.Len(t, svc.Submissions[1], 1)
	assert.Equal(t, "call_route", svc.Submissions[1][0].CallID)
	assert.Equal(t, "here is your image", svc.Submissions[1][0].Output)

	// Both exchanges were recorded locally.
	proxyHistory := studio.History("proxy_agent")
	require.Len(t, proxyHistory, 1)
	assert.Equal(t, "generate an image of a red boat", proxyHistory[0].Query)

	dalleHistory := studio.History("dalle_assistant")
	require.Len(t, dalleHistory, 1)
	assert.Equal(t, "a red boat", dalleHistory[0].Query)
	assert.Equal(t, "here is your image", dalleHistory[0].Reply)
}

func TestStudio_OrchestratorDeclaresRoutingTool(t *testing.T) {
	svc := testutil.NewScriptedService()

	studio, err := New(context.Background(), svc, proxyAgent(), nil, fastOpts)
	require.NoError(t, err)
	defer func() { _ = studio.Close(context.Background()) }()

	require.Equal(t, []string{"asst_proxy_agent"}, svc.CreatedAssistants)

	def := svc.AssistantDefs["asst_proxy_agent"]
	names := make([]string, 0, len(def.Tools))
	for _, td := range def.Tools {
		names = append(names, td.Name)
	}
	assert.Contains(t, names, router.SendMessageToolName)
}

func TestStudio_CloseDeletesAllAssistants(t *testing.T) {
	svc := testutil.NewScriptedService()

	studio, err := New(context.Background(), svc, proxyAgent(), []Agent{dalleAgent(&stubSynthesizer{}, artifact.NewInMemoryStore())}, fastOpts)
	require.NoError(t, err)

	require.NoError(t, studio.Close(context.Background()))
	assert.ElementsMatch(t, []string{"asst_proxy_agent", "asst_dalle_assistant"}, svc.DeletedAssistants)

	// Close is idempotent once the ids are released.
	require.NoError(t, studio.Close(context.Background()))
	assert.Len(t, svc.DeletedAssistants, 2)
}

func TestStudio_UnknownSpecialistIsConversational(t *testing.T) {
	svc := testutil.NewScriptedService()

	// The orchestrator asks for an agent that was never registered; the
	// routing tool answers with a failure string and the run continues.
	svc.Script("asst_proxy_agent", testutil.RunScript{
		Frames: []core.RunView{
			testutil.Frame(core.RunStatusRequiresAction, core.ToolCall{
				ID:        "call_route",
				Name:      "send_message",
				Arguments: `{"agent_name":"sculptor_assistant","query":"a marble boat"}`,
			}),
			testutil.Frame(core.RunStatusCompleted),
		},
		Reply: "I could not reach that specialist.",
	})

	studio, err := New(context.Background(), svc, proxyAgent(), nil, fastOpts)
	require.NoError(t, err)

	reply, err := studio.Request(context.Background(), "ask the sculptor for a boat")
	require.NoError(t, err)
	assert.Equal(t, "I could not reach that specialist.", reply)

	require.Len(t, svc.Submissions, 1)
	assert.Contains(t, svc.Submissions[0][0].Output, "not available")
}
