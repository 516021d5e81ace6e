package imagery

import (
	"context"
	"errors"
	"testing"

	"github.com/atelier-ai/atelier/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynthesizer struct {
	image []byte
	err   error
	calls []string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, prompt string) ([]byte, error) {
	f.calls = append(f.calls, prompt)
	return f.image, f.err
}

type fakeCritic struct {
	reply        string
	err          error
	seenImage    []byte
	seenInstruct string
}

func (f *fakeCritic) Critique(_ context.Context, image []byte, instruction string) (string, error) {
	f.seenImage = image
	f.seenInstruct = instruction
	return f.reply, f.err
}

func TestGenerateTool_StoresImage(t *testing.T) {
	store := artifact.NewInMemoryStore()
	synth := &fakeSynthesizer{image: []byte("png-bytes")}

	gen := NewGenerateTool(synth, store)
	assert.Equal(t, GenerateToolName, gen.Name())

	result, err := gen.Call(context.Background(), map[string]any{"prompt": "a red boat"})
	require.NoError(t, err)
	assert.Contains(t, result, "a red boat")
	assert.Equal(t, []string{"a red boat"}, synth.calls)

	_, data, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestGenerateTool_MissingPromptFailsValidation(t *testing.T) {
	gen := NewGenerateTool(&fakeSynthesizer{}, artifact.NewInMemoryStore())
	_, err := gen.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestGenerateTool_SynthesizerErrorPropagates(t *testing.T) {
	gen := NewGenerateTool(&fakeSynthesizer{err: errors.New("api down")}, artifact.NewInMemoryStore())
	_, err := gen.Call(context.Background(), map[string]any{"prompt": "x"})
	assert.ErrorContains(t, err, "api down")
}

func TestCritiqueTool_ReadsLatestImage(t *testing.T) {
	store := artifact.NewInMemoryStore()
	require.NoError(t, store.Save("image_1.png", []byte("png-bytes")))

	critic := &fakeCritic{reply: "add more contrast"}
	crit := NewCritiqueTool(critic, store)
	assert.Equal(t, CritiqueToolName, crit.Name())

	result, err := crit.Call(context.Background(), map[string]any{"instruction": "critique this"})
	require.NoError(t, err)
	assert.Equal(t, "add more contrast", result)
	assert.Equal(t, []byte("png-bytes"), critic.seenImage)
	assert.Equal(t, "critique this", critic.seenInstruct)
}

func TestCritiqueTool_NoImageYet(t *testing.T) {
	crit := NewCritiqueTool(&fakeCritic{}, artifact.NewInMemoryStore())
	_, err := crit.Call(context.Background(), map[string]any{"instruction": "critique this"})
	assert.ErrorContains(t, err, "no image has been generated yet")
}

func TestGenerateThenCritique_Handoff(t *testing.T) {
	store := artifact.NewInMemoryStore()
	synth := &fakeSynthesizer{image: []byte("boat-image")}
	critic := &fakeCritic{reply: "looks great"}

	gen := NewGenerateTool(synth, store)
	crit := NewCritiqueTool(critic, store)

	_, err := gen.Call(context.Background(), map[string]any{"prompt": "a red boat"})
	require.NoError(t, err)

	result, err := crit.Call(context.Background(), map[string]any{"instruction": "judge it"})
	require.NoError(t, err)
	assert.Equal(t, "looks great", result)

	// The critic saw exactly the bytes the synthesizer produced.
	assert.Equal(t, []byte("boat-image"), critic.seenImage)
}
