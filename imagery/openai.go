package imagery

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// DallEOptions configure the DALL·E synthesizer. Fields mirror a minimal
// subset of the image generation parameters.
type DallEOptions struct {
	Model   openai.ImageModel
	Size    openai.ImageGenerateParamsSize
	Quality openai.ImageGenerateParamsQuality
}

// DallESynthesizer implements Synthesizer using the OpenAI image
// generation API, requesting base64 payloads so no follow-up download is
// needed.
type DallESynthesizer struct {
	client *openai.Client
	opts   DallEOptions
}

// NewDallESynthesizer creates a synthesizer using a client configured from
// the environment.
func NewDallESynthesizer(optFns ...func(o *DallEOptions)) *DallESynthesizer {
	client := openai.NewClient()
	return NewDallESynthesizerFromClient(&client, optFns...)
}

// NewDallESynthesizerFromClient creates a synthesizer from an existing client.
func NewDallESynthesizerFromClient(client *openai.Client, optFns ...func(o *DallEOptions)) *DallESynthesizer {
	opts := DallEOptions{
		Model:   openai.ImageModelDallE3,
		Size:    openai.ImageGenerateParamsSize1024x1024,
		Quality: openai.ImageGenerateParamsQualityStandard,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &DallESynthesizer{client: client, opts: opts}
}

// Synthesize generates one PNG image for the prompt.
func (s *DallESynthesizer) Synthesize(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          s.opts.Model,
		Size:           s.opts.Size,
		Quality:        s.opts.Quality,
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image generation: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai image generation returned no data")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return data, nil
}

// VisionCriticOptions configure the GPT vision critic.
type VisionCriticOptions struct {
	Model               openai.ChatModel
	MaxCompletionTokens int64
}

// VisionCritic implements Critic using an OpenAI vision-capable chat model:
// the image is passed inline as a data URL next to the instruction.
type VisionCritic struct {
	client *openai.Client
	opts   VisionCriticOptions
}

// NewVisionCritic creates a critic using a client configured from the
// environment.
func NewVisionCritic(optFns ...func(o *VisionCriticOptions)) *VisionCritic {
	client := openai.NewClient()
	return NewVisionCriticFromClient(&client, optFns...)
}

// NewVisionCriticFromClient creates a critic from an existing client.
func NewVisionCriticFromClient(client *openai.Client, optFns ...func(o *VisionCriticOptions)) *VisionCritic {
	opts := VisionCriticOptions{
		Model:               openai.ChatModelGPT4o,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &VisionCritic{client: client, opts: opts}
}

// Critique sends the image and the instruction to the vision model and
// returns the aggregated text of its reply.
func (c *VisionCritic) Critique(ctx context.Context, image []byte, instruction string) (string, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               c.opts.Model,
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(instruction),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai vision critique: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai vision critique returned no choices")
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai vision critique returned empty content")
	}
	return text, nil
}
