package openai

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cognitive-crime/casegraph/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// CaseOpenAIClient talks to an OpenAI-compatible endpoint and implements
// ai.CaseAIClient. Every request runs under the configured timeout budget.
type CaseOpenAIClient struct {
	extractionModel string
	chatModel       string
	visionModel     string
	imageModel      string

	requestTimeout time.Duration

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	client *openai.Client
}

// NewCaseOpenAIClientParams configures a CaseOpenAIClient.
//
// BaseURL may be empty for the default OpenAI endpoint. RequestTimeout bounds
// each external call; zero disables the budget.
type NewCaseOpenAIClientParams struct {
	BaseURL string
	APIKey  string

	ExtractionModel string
	ChatModel       string
	VisionModel     string
	ImageModel      string

	RequestTimeout time.Duration
}

// NewCaseOpenAIClient creates a client for the configured endpoint and models.
func NewCaseOpenAIClient(params NewCaseOpenAIClientParams) *CaseOpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(params.APIKey)}
	if params.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(params.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &CaseOpenAIClient{
		extractionModel: params.ExtractionModel,
		chatModel:       params.ChatModel,
		visionModel:     params.VisionModel,
		imageModel:      params.ImageModel,
		requestTimeout:  params.RequestTimeout,
		client:          &client,
	}
}

// withBudget applies the per-call timeout, if one is configured.
func (c *CaseOpenAIClient) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}

// classify maps an SDK error to the ai error taxonomy. Deadline expiry counts
// as transport: the budget was exceeded, the service never answered.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ai.NewTransportError(err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return ai.NewServiceError(err)
	}
	return ai.NewTransportError(err)
}

func (c *CaseOpenAIClient) modifyMetrics(metrics ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += metrics.InputTokens
	c.metrics.OutputTokens += metrics.OutputTokens
	c.metrics.TotalTokens += metrics.TotalTokens
	c.metrics.DurationMs += metrics.DurationMs
}

// ResetMetrics clears the aggregated usage metrics.
func (c *CaseOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the usage metrics aggregated since the last reset.
func (c *CaseOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
