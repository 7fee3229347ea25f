package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/common"
	"github.com/ternarybob/lukz/internal/interfaces"
	"google.golang.org/genai"
)

func newTestFactory(mutate func(*common.Config)) *ProviderFactory {
	config := common.NewDefaultConfig()
	if mutate != nil {
		mutate(config)
	}
	return NewProviderFactory(config, arbor.NewLogger())
}

func TestDetectProvider(t *testing.T) {
	f := newTestFactory(nil)

	tests := []struct {
		model    string
		expected ProviderType
	}{
		{"", ProviderOpenAI},
		{"gpt-4", ProviderOpenAI},
		{"openai/gpt-4o", ProviderOpenAI},
		{"claude-3-5-haiku-latest", ProviderClaude},
		{"anthropic/claude-sonnet-4", ProviderClaude},
		{"gemini-2.5-flash", ProviderGemini},
		{"google/gemini-2.5-pro", ProviderGemini},
		{"mystery-model", ProviderOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.DetectProvider(tt.model))
		})
	}
}

func TestDetectProvider_ConfiguredDefault(t *testing.T) {
	f := newTestFactory(func(c *common.Config) { c.LLM.DefaultProvider = common.LLMProviderGemini })

	assert.Equal(t, ProviderGemini, f.DetectProvider(""))
	assert.Equal(t, "gemini-2.5-flash", f.GetDefaultModel(ProviderGemini))
	assert.Equal(t, "gpt-4", f.GetDefaultModel(ProviderOpenAI))
}

func TestNormalizeModel(t *testing.T) {
	f := newTestFactory(nil)

	assert.Equal(t, "gpt-4", f.NormalizeModel("openai/gpt-4"))
	assert.Equal(t, "claude-sonnet-4", f.NormalizeModel("Anthropic/claude-sonnet-4"))
	assert.Equal(t, "gemini-2.5-flash", f.NormalizeModel("gemini-2.5-flash"))
}

func TestValidateCredentials(t *testing.T) {
	f := newTestFactory(func(c *common.Config) { c.OpenAI.APIKey = "" })

	err := f.ValidateCredentials()
	require.Error(t, err)

	var configErr *interfaces.ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "openai", configErr.Provider)

	f = newTestFactory(func(c *common.Config) {
		c.LLM.DefaultProvider = common.LLMProviderClaude
		c.Claude.APIKey = "sk-ant"
	})
	assert.NoError(t, f.ValidateCredentials())
}

func promptMessages() []interfaces.Message {
	return []interfaces.Message{
		{Role: "system", Content: "rules"},
		{Role: "user", Content: "template"},
		{Role: "assistant", Content: "ack"},
	}
}

func TestConvertMessagesToOpenAI(t *testing.T) {
	msgs, err := convertMessagesToOpenAI(promptMessages())
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	_, err = convertMessagesToOpenAI(nil)
	assert.Error(t, err)
}

func TestConvertMessagesToClaude(t *testing.T) {
	msgs, system, err := convertMessagesToClaude(promptMessages())
	require.NoError(t, err)

	assert.Equal(t, "rules", system)
	require.Len(t, msgs, 3, "trailing assistant turn is followed by a user turn")
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}

func TestConvertMessagesToGemini(t *testing.T) {
	contents, system, err := convertMessagesToGemini(promptMessages())
	require.NoError(t, err)

	assert.Equal(t, "rules", system)
	require.Len(t, contents, 3)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	assert.Equal(t, continuePrompt, contents[2].Parts[0].Text)
}

func TestSplitSystem_RequiresUser(t *testing.T) {
	_, _, err := splitSystem([]interfaces.Message{{Role: "system", Content: "only"}})
	assert.Error(t, err)

	_, _, err = splitSystem(nil)
	assert.Error(t, err)
}
