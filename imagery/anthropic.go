package imagery

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// ClaudeCriticOptions configure the Claude vision critic.
type ClaudeCriticOptions struct {
	Model     anthropic.Model
	MaxTokens int64
}

// ClaudeCritic implements Critic using Anthropic's vision-capable Messages
// API, as an alternative backend to the OpenAI VisionCritic.
type ClaudeCritic struct {
	client anthropic.Client
	opts   ClaudeCriticOptions
}

// NewClaudeCritic creates a critic using a client configured from the
// environment.
func NewClaudeCritic(optFns ...func(o *ClaudeCriticOptions)) *ClaudeCritic {
	return NewClaudeCriticFromClient(anthropic.NewClient(), optFns...)
}

// NewClaudeCriticFromClient creates a critic from an existing client.
func NewClaudeCriticFromClient(client anthropic.Client, optFns ...func(o *ClaudeCriticOptions)) *ClaudeCritic {
	opts := ClaudeCriticOptions{
		Model:     anthropic.ModelClaude3_7SonnetLatest,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ClaudeCritic{client: client, opts: opts}
}

// Critique sends the image and the instruction to Claude and returns the
// aggregated text of its reply.
func (c *ClaudeCritic) Critique(ctx context.Context, image []byte, instruction string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.opts.Model,
		MaxTokens: c.opts.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/png", encoded),
				anthropic.NewTextBlock(instruction),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic vision critique: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("anthropic vision critique returned empty content")
	}
	return text, nil
}
