package openai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/metrics"
)

var _ domain.Oracle = (*Oracle)(nil)

// Oracle is the text-generation service backed by chat completions.
type Oracle struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOracle creates a chat-completion oracle.
func NewOracle(cfg *Config) *Oracle {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{
		client: newClient(cfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Complete sends one prompt and returns the first choice's text.
func (o *Oracle) Complete(ctx context.Context, p domain.Prompt) (string, error) {
	purpose := p.Purpose
	if purpose == "" {
		purpose = "unspecified"
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if p.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    msgs,
		Temperature: p.Temperature,
	}
	if req.Temperature == 0 {
		// omitempty drops an explicit 0 and the provider default is not deterministic
		req.Temperature = math.SmallestNonzeroFloat32
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.OracleRequestsTotal.WithLabelValues(o.model, purpose, "error").Inc()
		return "", parseAPIError("oracle", err, domain.ErrOracleUnavailable)
	}
	if len(resp.Choices) == 0 {
		metrics.OracleRequestsTotal.WithLabelValues(o.model, purpose, "error").Inc()
		return "", fmt.Errorf("empty completion: %w", domain.ErrOracleUnavailable)
	}

	metrics.OracleRequestsTotal.WithLabelValues(o.model, purpose, "success").Inc()
	metrics.OracleRequestDuration.WithLabelValues(o.model, purpose).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.OracleTokensTotal.WithLabelValues(o.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.OracleTokensTotal.WithLabelValues(o.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}
	domain.UsageFromContext(ctx).AddOracle(resp.Usage.TotalTokens)

	o.logger.Debug("Oracle completion",
		zap.String("purpose", purpose),
		zap.Duration("duration", duration),
		zap.Int("tokens", resp.Usage.TotalTokens),
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels.
func (o *Oracle) HealthCheck(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
