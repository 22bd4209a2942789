package llm

import (
	"context"
)

// LLMClient produces a text completion for a prompt.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options tune every provider the same way.
type Options struct {
	System    string // system instruction sent with every prompt
	MaxTokens int
	JSON      bool // ask the provider for a JSON object response
}

func (o Options) maxTokens() int {
	if o.MaxTokens <= 0 {
		return 1024
	}
	return o.MaxTokens
}
