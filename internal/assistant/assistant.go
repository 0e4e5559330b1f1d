// Package assistant wires the keyword router, the ERP gateway, the
// conversation store and the language model into the per-query pipeline
// behind the REPL.
package assistant

import (
	"context"
	"fmt"

	"github.com/Shamlan321/OdooSense/internal/config"
	"github.com/Shamlan321/OdooSense/internal/conversation"
	"github.com/Shamlan321/OdooSense/internal/logger"
	"github.com/Shamlan321/OdooSense/internal/odoo"
	"github.com/Shamlan321/OdooSense/internal/router"
)

// Fetcher is the slice of the ERP gateway the assistant needs.
type Fetcher interface {
	Fetch(ctx context.Context, module router.Module) (*odoo.Dataset, error)
	InstallModule(ctx context.Context, name string) (*odoo.InstallResult, error)
}

// Responder is the slice of the model orchestrator the assistant needs.
type Responder interface {
	Converse(ctx context.Context, query string, history []conversation.Turn) (string, error)
	Answer(ctx context.Context, query, status string, ds *odoo.Dataset, history []conversation.Turn) (string, error)
}

// Reply is the outcome of one handled query. Dataset is only set when a
// fetch succeeded.
type Reply struct {
	Module      router.Module
	Status      string
	Answer      string
	RecordCount int
	Dataset     *odoo.Dataset
}

type Assistant struct {
	erp   Fetcher
	llm   Responder
	store *conversation.Store
	trace bool
}

func New(erp Fetcher, llm Responder, store *conversation.Store, cfg *config.Config) *Assistant {
	return &Assistant{
		erp:   erp,
		llm:   llm,
		store: store,
		trace: cfg.ShowFullErrorTrace,
	}
}

// Handle runs one query through the pipeline: classify, fetch, answer,
// record. ERP failures degrade to an error status the model explains to the
// user; only model failures surface as errors.
func (a *Assistant) Handle(ctx context.Context, sessionID, query string) (*Reply, error) {
	history := a.store.Get(sessionID)

	if router.IsConversational(query) {
		answer, err := a.llm.Converse(ctx, query, history)
		if err != nil {
			return nil, err
		}
		a.record(sessionID, conversation.Turn{Query: query, Module: router.Unknown, Response: answer})
		return &Reply{Module: router.Unknown, Answer: answer}, nil
	}

	if target, ok := router.InstallIntent(query); ok {
		return a.handleInstall(ctx, sessionID, query, target, history)
	}

	module := router.Route(query)
	if module == router.Unknown {
		status := unknownStatus
		answer, err := a.llm.Answer(ctx, query, status, nil, history)
		if err != nil {
			return nil, err
		}
		a.record(sessionID, conversation.Turn{Query: query, Module: module, Status: status, Response: answer})
		return &Reply{Module: module, Status: status, Answer: answer}, nil
	}

	logger.Debug().Str("module", string(module)).Str("query", query).Msg("routed query")

	ds, err := a.erp.Fetch(ctx, module)
	if err != nil {
		logger.Error().Err(err).Str("module", string(module)).Msg("fetch failed")
		status := a.errorStatus(err)
		answer, lerr := a.llm.Answer(ctx, query, status, nil, history)
		if lerr != nil {
			return nil, lerr
		}
		a.record(sessionID, conversation.Turn{Query: query, Module: module, Status: status, Response: answer})
		return &Reply{Module: module, Status: status, Answer: answer}, nil
	}

	status := ds.Status()
	answer, err := a.llm.Answer(ctx, query, status, ds, history)
	if err != nil {
		return nil, err
	}

	a.record(sessionID, conversation.Turn{
		Query:    query,
		Module:   module,
		Records:  ds.AllRecords(),
		Status:   status,
		Response: answer,
	})
	return &Reply{Module: module, Status: status, Answer: answer, RecordCount: ds.Total(), Dataset: ds}, nil
}

func (a *Assistant) handleInstall(ctx context.Context, sessionID, query, target string, history []conversation.Turn) (*Reply, error) {
	var status string
	res, err := a.erp.InstallModule(ctx, target)
	switch {
	case err != nil:
		logger.Error().Err(err).Str("module", target).Msg("install failed")
		status = a.errorStatus(err)
	case res.AlreadyInstalled:
		status = fmt.Sprintf("Module %s is already installed", target)
	default:
		status = fmt.Sprintf("Module %s has been installed successfully", target)
	}

	answer, lerr := a.llm.Answer(ctx, query, status, nil, history)
	if lerr != nil {
		return nil, lerr
	}
	a.record(sessionID, conversation.Turn{Query: query, Module: router.Unknown, Status: status, Response: answer})
	return &Reply{Module: router.Unknown, Status: status, Answer: answer}, nil
}

const unknownStatus = "The query did not match any Odoo module the assistant knows. " +
	"It can report on CRM, sales, purchases, inventory, stock moves, manufacturing, " +
	"invoices, vendor bills, employees, website and eCommerce data."

// errorStatus folds an ERP failure into the status line handed to the model.
// The full error only appears when SHOW_FULL_ERROR_TRACE is on; the log always
// carries it.
func (a *Assistant) errorStatus(err error) string {
	var kind string
	switch {
	case odoo.IsConnectionError(err):
		kind = "could not reach the Odoo server"
	case odoo.IsAuthError(err):
		kind = "Odoo rejected the configured credentials"
	case odoo.IsAPIError(err):
		kind = "the Odoo API rejected the request"
	default:
		kind = "unexpected failure talking to Odoo"
	}
	if a.trace {
		return fmt.Sprintf("Error occurred: %s: %v", kind, err)
	}
	return "Error occurred: " + kind
}

func (a *Assistant) record(sessionID string, turn conversation.Turn) {
	a.store.Append(sessionID, turn)
}
