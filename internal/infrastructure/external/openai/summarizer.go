package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config holds the OpenAI client settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	PromptsPath string
}

// Summarizer implements port.ActivitySummarizer using chat completions
type Summarizer struct {
	client  *openai.Client
	model   string
	prompts *PromptConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewSummarizer creates a summarizer. Temperature and MaxTokens from cfg
// override the prompt file when set.
func NewSummarizer(cfg Config, logger *zap.Logger) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	prompts := DefaultPrompts()
	if cfg.PromptsPath != "" {
		loaded, err := LoadPrompts(cfg.PromptsPath)
		if err != nil {
			return nil, err
		}
		prompts = loaded
	}
	if cfg.Temperature > 0 {
		prompts.WeekSummary.Temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		prompts.WeekSummary.MaxTokens = cfg.MaxTokens
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Summarizer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		prompts: prompts,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

type summaryPromptData struct {
	Week       int
	Days       []port.DayActivity
	Operations []string
}

// SummarizeWeek drafts the week activity paragraph
func (s *Summarizer) SummarizeWeek(ctx context.Context, week int, days []port.DayActivity, operations []string) (string, error) {
	prompt, err := renderTemplate(s.prompts.WeekSummary.UserTemplate, summaryPromptData{
		Week:       week,
		Days:       days,
		Operations: operations,
	})
	if err != nil {
		return "", err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.prompts.WeekSummary.Temperature,
		MaxTokens:   s.prompts.WeekSummary.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.prompts.WeekSummary.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		s.logger.Error("OpenAI API call failed", zap.Int("week", week), zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("empty summary from OpenAI")
	}
	s.logger.Debug("Week summary drafted",
		zap.Int("week", week),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	return summary, nil
}

var _ port.ActivitySummarizer = (*Summarizer)(nil)
