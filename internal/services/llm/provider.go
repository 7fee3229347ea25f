package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/common"
	"github.com/ternarybob/lukz/internal/interfaces"
	"google.golang.org/genai"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderOpenAI uses the OpenAI chat completions API
	ProviderOpenAI ProviderType = "openai"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// continuePrompt closes a conversation that ends on an assistant turn, for
// providers that would otherwise treat that turn as a prefill.
const continuePrompt = "Write the insight now, following the template exactly."

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// ProviderFactory creates provider clients lazily and routes requests to them.
// Clients are created once and shared by concurrent requests.
type ProviderFactory struct {
	openaiConfig *common.OpenAIConfig
	claudeConfig *common.ClaudeConfig
	geminiConfig *common.GeminiConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger

	mu           sync.Mutex
	openaiClient *openai.Client
	claudeClient *anthropic.Client
	geminiClient *genai.Client
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(config *common.Config, logger arbor.ILogger) *ProviderFactory {
	return &ProviderFactory{
		openaiConfig: &config.OpenAI,
		claudeConfig: &config.Claude,
		geminiConfig: &config.Gemini,
		llmConfig:    &config.LLM,
		logger:       logger,
	}
}

// DetectProvider determines the provider type from a model string.
//   - "gpt-4", "openai/gpt-4" -> OpenAI
//   - "claude-...", "anthropic/claude-..." -> Claude
//   - "gemini-...", "google/gemini-..." -> Gemini
//   - "" or unknown -> configured default provider
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	model = strings.ToLower(model)

	switch {
	case model == "":
	case strings.HasPrefix(model, "openai/"), strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return ProviderOpenAI
	case strings.HasPrefix(model, "claude/"), strings.HasPrefix(model, "anthropic/"), strings.HasPrefix(model, "claude-"):
		return ProviderClaude
	case strings.HasPrefix(model, "gemini/"), strings.HasPrefix(model, "google/"), strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	}

	if f.llmConfig.DefaultProvider == "" {
		return ProviderOpenAI
	}
	return ProviderType(f.llmConfig.DefaultProvider)
}

// NormalizeModel removes provider prefix from model name if present
func (f *ProviderFactory) NormalizeModel(model string) string {
	prefixes := []string{"openai/", "claude/", "anthropic/", "gemini/", "google/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// GetDefaultModel returns the default model for a provider
func (f *ProviderFactory) GetDefaultModel(provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return f.claudeConfig.Model
	case ProviderGemini:
		return f.geminiConfig.Model
	default:
		return f.openaiConfig.Model
	}
}

// ValidateCredentials checks that the default provider has an API key.
// A missing key is a *interfaces.ConfigurationError and is fatal at startup.
func (f *ProviderFactory) ValidateCredentials() error {
	provider := f.DetectProvider("")

	var apiKey, source string
	switch provider {
	case ProviderOpenAI:
		apiKey, source = f.openaiConfig.APIKey, "OPENAI_API_KEY or openai.api_key"
	case ProviderClaude:
		apiKey, source = f.claudeConfig.APIKey, "ANTHROPIC_API_KEY or claude.api_key"
	case ProviderGemini:
		apiKey, source = f.geminiConfig.APIKey, "GEMINI_API_KEY or gemini.api_key"
	default:
		return &interfaces.ConfigurationError{Provider: string(provider), Reason: "unsupported provider"}
	}

	if strings.TrimSpace(apiKey) == "" {
		return &interfaces.ConfigurationError{Provider: string(provider), Reason: "API key is required (set " + source + ")"}
	}
	return nil
}

// GenerateContent generates content using the appropriate provider based on model
func (f *ProviderFactory) GenerateContent(ctx context.Context, request *interfaces.GenerationRequest) (*ContentResponse, error) {
	provider := f.DetectProvider(request.Model)
	model := f.NormalizeModel(request.Model)
	if model == "" {
		model = f.GetDefaultModel(provider)
	}

	f.logger.Debug().
		Str("provider", string(provider)).
		Str("model", model).
		Int("message_count", len(request.Messages)).
		Msg("Generating content with provider")

	switch provider {
	case ProviderClaude:
		return f.generateWithClaude(ctx, request, model)
	case ProviderGemini:
		return f.generateWithGemini(ctx, request, model)
	case ProviderOpenAI:
		return f.generateWithOpenAI(ctx, request, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Close drops all provider clients
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.openaiClient = nil
	f.claudeClient = nil
	f.geminiClient = nil
	return nil
}

// splitSystem separates the first system message from the conversation and
// makes sure the conversation ends on a user turn.
func splitSystem(messages []interfaces.Message) ([]interfaces.Message, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	var systemText string
	conversation := make([]interfaces.Message, 0, len(messages)+1)
	hasUser := false
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		case "user":
			hasUser = true
		}
		conversation = append(conversation, msg)
	}
	if !hasUser {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	if conversation[len(conversation)-1].Role == "assistant" {
		conversation = append(conversation, interfaces.Message{Role: "user", Content: continuePrompt})
	}
	return conversation, systemText, nil
}
