// Package ai wraps the OpenAI chat completion API behind a small interface so
// that scenario generation can be tested with a fake completer.
package ai

import (
	"context"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/sashabaranov/go-openai"
)

const MaxTokens = 4096

// Completer produces one chat completion for a prompt pair.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{ //nolint:exhaustruct
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{ //nolint:exhaustruct
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
