// Package imagery contains the leaf tool implementations of the studio: a
// generation tool that turns a text prompt into an image and a critique
// tool that turns the stored image plus an instruction into free text.
// Both are thin adapters over the Synthesizer and Critic interfaces; the
// generated image flows between them through an explicit artifact store
// rather than a hidden shared file.
package imagery

import (
	"context"
	"errors"
	"fmt"

	"github.com/atelier-ai/atelier/artifact"
	"github.com/atelier-ai/atelier/internal/util"
	"github.com/atelier-ai/atelier/tool"
)

// GenerateToolName is the capability name of the image generation tool.
const GenerateToolName = "generate_image"

// CritiqueToolName is the capability name of the image critique tool.
const CritiqueToolName = "analyze_image"

// Synthesizer produces image bytes (PNG) from a text prompt.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) ([]byte, error)
}

// Critic analyzes image bytes under a free-text instruction and returns a
// textual critique or improved prompt.
type Critic interface {
	Critique(ctx context.Context, image []byte, instruction string) (string, error)
}

// NewGenerateTool builds the generate_image capability: synthesize an image
// for the prompt, hand it off through the store, and report the stored name
// so the calling agent can refer to it.
func NewGenerateTool(synth Synthesizer, store artifact.Store) tool.Tool {
	return tool.NewFunctionTool(
		GenerateToolName,
		"Generate an image from a text prompt and store it for later analysis.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt": map[string]any{"type": "string", "description": "Text prompt describing the image to create"},
			},
			"required": []string{"prompt"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			prompt := args["prompt"].(string)

			data, err := synth.Synthesize(ctx, prompt)
			if err != nil {
				return "", fmt.Errorf("synthesize image: %w", err)
			}

			name := fmt.Sprintf("image_%s.png", util.NewID()[:8])
			if err := store.Save(name, data); err != nil {
				return "", fmt.Errorf("store image: %w", err)
			}

			return fmt.Sprintf("Image generated from prompt %q and stored as %s.", prompt, name), nil
		},
	)
}

// NewCritiqueTool builds the analyze_image capability: load the most
// recently generated image from the store and run the critic over it.
// Calling it before any image exists is reported as a tool error.
func NewCritiqueTool(critic Critic, store artifact.Store) tool.Tool {
	return tool.NewFunctionTool(
		CritiqueToolName,
		"Analyze the most recently generated image and answer the given instruction, e.g. critique it or suggest an improved prompt.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"instruction": map[string]any{"type": "string", "description": "What to do with the image, e.g. critique it or derive a better prompt"},
			},
			"required": []string{"instruction"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			instruction := args["instruction"].(string)

			name, data, err := store.Latest()
			if errors.Is(err, artifact.ErrNotFound) {
				return "", fmt.Errorf("no image has been generated yet")
			}
			if err != nil {
				return "", fmt.Errorf("load image: %w", err)
			}

			critique, err := critic.Critique(ctx, data, instruction)
			if err != nil {
				return "", fmt.Errorf("critique image %s: %w", name, err)
			}
			return critique, nil
		},
	)
}
