// Package llm composes routed queries, conversation history and fetched ERP
// records into prompts for the Gemini chat model and returns its answers.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/Shamlan321/OdooSense/internal/config"
)

// ChatModel is the slice of the eino chat model the orchestrator needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// NewGeminiModel builds the eino chat model backed by the Gemini API.
func NewGeminiModel(ctx context.Context, cfg *config.Config) (*gemini.ChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model %s: %w", cfg.GeminiModel, err)
	}
	return chatModel, nil
}
