package router

import (
	"context"
	"testing"
	"time"

	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/driver"
	"github.com/atelier-ai/atelier/internal/testutil"
	"github.com/atelier-ai/atelier/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(svc *testutil.ScriptedService, optFns ...func(o *Options)) *Router {
	drv := driver.New(svc, func(o *driver.Options) { o.PollInterval = time.Millisecond })
	return New(svc, drv, optFns...)
}

func registerAgent(t *testing.T, r *Router, name string) {
	t.Helper()
	def := core.AssistantDef{Name: name, Model: "gpt-4o", Instructions: "test agent"}
	require.NoError(t, r.Register(def, "asst_"+name))
}

func completedScript(reply string) testutil.RunScript {
	return testutil.RunScript{
		Frames: []core.RunView{testutil.Frame(core.RunStatusCompleted)},
		Reply:  reply,
	}
}

func TestRoute_ReusesThreadAcrossCalls(t *testing.T) {
	svc := testutil.NewScriptedService()
	svc.Script("asst_dalle_assistant", completedScript("first"))
	svc.Script("asst_dalle_assistant", completedScript("second"))

	r := newRouter(svc)
	registerAgent(t, r, "dalle_assistant")

	reply, err := r.Route(context.Background(), "dalle_assistant", "a red boat")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)

	reply, err = r.Route(context.Background(), "dalle_assistant", "make it bigger")
	require.NoError(t, err)
	assert.Equal(t, "second", reply)

	// One thread per agent per session, reused on the second call.
	assert.Len(t, svc.CreatedThreads, 1)
	assert.Len(t, svc.ThreadMessages[svc.CreatedThreads[0]], 4) // 2 user + 2 assistant
}

func TestRoute_UnknownAgentReturnsFailureString(t *testing.T) {
	svc := testutil.NewScriptedService()
	r := newRouter(svc)
	registerAgent(t, r, "dalle_assistant")

	reply, err := r.Route(context.Background(), "nonexistent_agent", "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "nonexistent_agent")
	assert.Contains(t, reply, "not available")

	// The driver never ran: no threads, no messages, no runs.
	assert.Empty(t, svc.CreatedThreads)
	assert.Empty(t, svc.Submissions)
}

func TestRoute_RecordsTranscript(t *testing.T) {
	svc := testutil.NewScriptedService()
	svc.Script("asst_dalle_assistant", completedScript("here is your image"))

	rec := transcript.NewInMemory()
	r := newRouter(svc, func(o *Options) { o.Recorder = rec })
	registerAgent(t, r, "dalle_assistant")

	_, err := r.Route(context.Background(), "dalle_assistant", "a red boat")
	require.NoError(t, err)

	history := rec.History("dalle_assistant")
	require.Len(t, history, 1)
	assert.Equal(t, "a red boat", history[0].Query)
	assert.Equal(t, "here is your image", history[0].Reply)
}

func TestRoute_DriverErrorPropagates(t *testing.T) {
	svc := testutil.NewScriptedService()
	svc.Script("asst_dalle_assistant", testutil.RunScript{
		Frames: []core.RunView{{Status: core.RunStatusFailed, FailureDetail: "boom"}},
	})

	r := newRouter(svc)
	registerAgent(t, r, "dalle_assistant")

	_, err := r.Route(context.Background(), "dalle_assistant", "a red boat")
	var failedErr *driver.RunFailedError
	require.ErrorAs(t, err, &failedErr)
	assert.Contains(t, failedErr.Detail, "boom")
}

func TestRegister_DuplicateName(t *testing.T) {
	r := newRouter(testutil.NewScriptedService())
	registerAgent(t, r, "dalle_assistant")

	def := core.AssistantDef{Name: "dalle_assistant"}
	err := r.Register(def, "asst_other")
	assert.ErrorContains(t, err, "already registered")
}

func TestNames(t *testing.T) {
	r := newRouter(testutil.NewScriptedService())
	registerAgent(t, r, "dalle_assistant")
	registerAgent(t, r, "vision_assistant")
	assert.ElementsMatch(t, []string{"dalle_assistant", "vision_assistant"}, r.Names())
}

func TestSendMessageTool(t *testing.T) {
	svc := testutil.NewScriptedService()
	svc.Script("asst_dalle_assistant", completedScript("routed reply"))

	r := newRouter(svc)
	registerAgent(t, r, "dalle_assistant")

	tl := r.Tool()
	assert.Equal(t, SendMessageToolName, tl.Name())

	props := tl.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "agent_name")
	assert.Contains(t, props, "query")

	reply, err := tl.Call(context.Background(), map[string]any{
		"agent_name": "dalle_assistant",
		"query":      "a red boat",
	})
	require.NoError(t, err)
	assert.Equal(t, "routed reply", reply)

	_, err = tl.Call(context.Background(), map[string]any{"query": "missing agent"})
	assert.ErrorContains(t, err, "agent_name")
}
