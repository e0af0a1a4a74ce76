package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/loader"

	"github.com/openai/openai-go/v3"
)

// GenerateImageDescription sends a vision request with a base64-encoded image
// and returns the model's textual description based on the provided prompt.
func (c *CaseOpenAIClient) GenerateImageDescription(
	ctx context.Context,
	prompt string,
	image loader.ImageContent,
) (string, error) {
	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.visionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: image.DataURI(),
				}),
			}),
		},
	}

	ctx, cancel := c.withBudget(ctx)
	defer cancel()

	start := time.Now()
	response, err := c.client.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", classify(err)
	}
	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   time.Since(start).Milliseconds(),
	})

	if len(response.Choices) == 0 {
		return "", ai.NewFormatError(fmt.Errorf("no choices in response from model"))
	}
	return response.Choices[0].Message.Content, nil
}

// GenerateImage generates an image for the prompt and returns the raw bytes.
func (c *CaseOpenAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := c.withBudget(ctx)
	defer cancel()

	start := time.Now()
	response, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(c.imageModel),
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, classify(err)
	}
	c.modifyMetrics(ai.ModelMetrics{
		DurationMs: time.Since(start).Milliseconds(),
	})

	if len(response.Data) == 0 || response.Data[0].B64JSON == "" {
		return nil, ai.NewFormatError(fmt.Errorf("no image data in response from model"))
	}
	data, err := base64.StdEncoding.DecodeString(response.Data[0].B64JSON)
	if err != nil {
		return nil, ai.NewFormatError(fmt.Errorf("failed to decode image data: %w", err))
	}
	return data, nil
}
