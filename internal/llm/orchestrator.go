package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Shamlan321/OdooSense/internal/conversation"
	"github.com/Shamlan321/OdooSense/internal/logger"
	"github.com/Shamlan321/OdooSense/internal/odoo"
)

// Orchestrator turns queries, history and fetched records into natural
// language answers.
type Orchestrator struct {
	model ChatModel
}

func NewOrchestrator(m ChatModel) *Orchestrator {
	return &Orchestrator{model: m}
}

// Converse answers greetings and small talk without any ERP data.
func (o *Orchestrator) Converse(ctx context.Context, query string, history []conversation.Turn) (string, error) {
	return o.generate(ctx, conversationalMessages(query, history))
}

// Answer summarizes a fetch result for the user. The dataset may be nil when
// the fetch failed; status then carries the error description the model
// should relay.
func (o *Orchestrator) Answer(ctx context.Context, query, status string, ds *odoo.Dataset, history []conversation.Turn) (string, error) {
	return o.generate(ctx, dataMessages(query, status, ds, history))
}

func (o *Orchestrator) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	logger.Debug().Int("messages", len(messages)).Msg("calling chat model")

	resp, err := o.model.Generate(ctx, messages)
	if err != nil {
		apiErr := wrapAPIError(err)
		if apiErr.RateLimited {
			logger.Warn().Err(err).Msg("model rate limited")
		}
		return "", apiErr
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", &APIError{Err: errors.New("model returned an empty answer")}
	}
	return answer, nil
}
