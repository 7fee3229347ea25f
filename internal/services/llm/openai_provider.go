package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/ternarybob/lukz/internal/interfaces"
)

func (f *ProviderFactory) getOpenAIClient() (*openai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openaiClient != nil {
		return f.openaiClient, nil
	}
	if f.openaiConfig.APIKey == "" {
		return nil, &interfaces.ConfigurationError{Provider: string(ProviderOpenAI), Reason: "API key is required"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(f.openaiConfig.APIKey),
		option.WithMaxRetries(0),
	}
	if f.openaiConfig.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(f.openaiConfig.BaseURL))
	}

	client := openai.NewClient(opts...)
	f.openaiClient = &client
	return f.openaiClient, nil
}

// convertMessagesToOpenAI keeps all roles in order; chat completions accept
// a trailing assistant turn as conversation history.
func convertMessagesToOpenAI(messages []interfaces.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty")
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			out = append(out, openai.SystemMessage(msg.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out, nil
}

func (f *ProviderFactory) generateWithOpenAI(ctx context.Context, request *interfaces.GenerationRequest, model string) (*ContentResponse, error) {
	client, err := f.getOpenAIClient()
	if err != nil {
		return nil, err
	}

	messages, err := convertMessagesToOpenAI(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if request.Temperature > 0 {
		params.Temperature = openai.Float(float64(request.Temperature))
	}
	if request.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(request.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices from openai", ErrEmptyResponse)
	}

	return &ContentResponse{
		Text:     resp.Choices[0].Message.Content,
		Provider: ProviderOpenAI,
		Model:    model,
	}, nil
}
