package claude

import (
	"context"
	"errors"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

const maxTokens = 1024

var errNoText = errors.New("claude response has no text content")

type ClaudeModel struct {
	client *anthropic.Client
	model  string
}

func NewClaudeModel(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeModel {
	return &ClaudeModel{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// Complete sends prompt as a single user message and returns the first text
// block of the reply.
func (m *ClaudeModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(m.model),
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, content := range resp.Content {
		if content.Type == anthropic.MessagesContentTypeText {
			return content.GetText(), nil
		}
	}
	return "", errNoText
}
