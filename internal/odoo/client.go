// Package odoo talks to an Odoo server over its external JSON-RPC API and
// maps the assistant's module domains onto concrete record queries. Records
// pass through as opaque field/value maps; business semantics stay on the
// server.
package odoo

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"github.com/Shamlan321/OdooSense/internal/config"
	"github.com/Shamlan321/OdooSense/internal/logger"
)

// Record is one ERP record as returned by the server. Odoo sends false for
// empty fields and [id, display_name] pairs for many2one fields, so values
// are only ever inspected through the helpers in record.go.
type Record = map[string]any

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcFault       `json:"error"`
}

type rpcFault struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    *faultData `json:"data"`
}

type faultData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Debug   string `json:"debug"`
}

// ServerVersion is the result of the common.version call.
type ServerVersion struct {
	ServerVersion     string `json:"server_version"`
	ServerVersionInfo []any  `json:"server_version_info"`
	ServerSerie       string `json:"server_serie"`
	ProtocolVersion   int    `json:"protocol_version"`
}

// Client is an authenticated connection to one Odoo database. The uid from
// the login call is cached and refreshed on demand.
type Client struct {
	http     *resty.Client
	url      string
	db       string
	username string
	password string
	lang     string

	seq int64

	mu  sync.Mutex
	uid int
}

func NewClient(cfg *config.Config) (*Client, error) {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.OdooURL, "/")).
		SetTimeout(cfg.ConnectionTimeout).
		SetHeader("Content-Type", "application/json")

	if !cfg.SSLVerify {
		hc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	} else if cfg.SSLCertPath != "" {
		pem, err := os.ReadFile(cfg.SSLCertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA bundle %s: %w", cfg.SSLCertPath, err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.SSLCertPath)
		}
		hc.SetTLSClientConfig(&tls.Config{RootCAs: pool})
	}

	return &Client{
		http:     hc,
		url:      cfg.OdooURL,
		db:       cfg.OdooDB,
		username: cfg.OdooUsername,
		password: cfg.OdooPassword,
		lang:     cfg.DefaultLanguage,
	}, nil
}

// call posts one JSON-RPC request and decodes the result into out. op names
// the logical operation ("crm.lead.search_read") for error reporting.
func (c *Client) call(ctx context.Context, service, method, op string, args []any, out any) error {
	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      atomic.AddInt64(&c.seq, 1),
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/jsonrpc")
	if err != nil {
		return &ConnectionError{URL: c.url, Err: err}
	}
	if resp.StatusCode() != 200 {
		return &ConnectionError{URL: c.url, Err: fmt.Errorf("HTTP %d", resp.StatusCode())}
	}

	var rpcResp rpcResponse
	if err := sonic.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if rpcResp.Error != nil {
		return c.classifyFault(op, rpcResp.Error)
	}
	if out != nil && len(rpcResp.Result) > 0 {
		if err := sonic.Unmarshal(rpcResp.Result, out); err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("decode result: %w", err)}
		}
	}
	return nil
}

func (c *Client) classifyFault(op string, fault *rpcFault) error {
	name := ""
	msg := fault.Message
	if fault.Data != nil {
		name = fault.Data.Name
		if fault.Data.Message != "" {
			msg = fault.Data.Message
		}
	}

	logger.Debug().Str("op", op).Str("fault", name).Str("message", msg).Msg("odoo server fault")

	cause := fmt.Errorf("%s", msg)
	if name != "" {
		cause = fmt.Errorf("%s: %s", name, msg)
	}
	if strings.Contains(name, "AccessDenied") || strings.Contains(name, "AccessError") ||
		strings.Contains(strings.ToLower(msg), "session expired") {
		return &AuthError{Database: c.db, Username: c.username, Err: cause}
	}
	return &APIError{Op: op, Err: cause}
}

// Authenticate logs in and returns the user id. The uid is cached; a cached
// value is returned without a network call.
func (c *Client) Authenticate(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uid != 0 {
		return c.uid, nil
	}

	var result any
	err := c.call(ctx, "common", "authenticate", "common.authenticate",
		[]any{c.db, c.username, c.password, map[string]any{}}, &result)
	if err != nil {
		return 0, err
	}

	uid, ok := asInt(result)
	if !ok || uid <= 0 {
		// Odoo answers false instead of a fault on bad credentials.
		return 0, &AuthError{Database: c.db, Username: c.username}
	}
	c.uid = uid
	logger.Debug().Int("uid", uid).Str("db", c.db).Msg("authenticated against odoo")
	return uid, nil
}

// Version asks the server for its version info. No authentication required.
func (c *Client) Version(ctx context.Context) (*ServerVersion, error) {
	var v ServerVersion
	if err := c.call(ctx, "common", "version", "common.version", []any{}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ExecuteKw runs a model method through the object service, logging in first
// when needed. The configured language travels in the call context.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kw map[string]any, out any) error {
	uid, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}

	if kw == nil {
		kw = map[string]any{}
	}
	if c.lang != "" {
		if _, ok := kw["context"]; !ok {
			kw["context"] = map[string]any{"lang": c.lang}
		}
	}

	op := model + "." + method
	callArgs := []any{c.db, uid, c.password, model, method, args, kw}
	err = c.call(ctx, "object", "execute_kw", op, callArgs, out)
	if err != nil && IsAuthError(err) {
		// The session may have gone stale server-side; force a fresh login
		// on the next call.
		c.mu.Lock()
		c.uid = 0
		c.mu.Unlock()
	}
	return err
}

// SearchRead fetches records matching domain, restricted to fields. A limit
// of 0 means no limit.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, fields []string, limit int, out any) error {
	kw := map[string]any{"fields": fields}
	if limit > 0 {
		kw["limit"] = limit
	}
	if domain == nil {
		domain = []any{}
	}
	return c.ExecuteKw(ctx, model, "search_read", []any{domain}, kw, out)
}

// SearchCount counts records matching domain.
func (c *Client) SearchCount(ctx context.Context, model string, domain []any) (int, error) {
	if domain == nil {
		domain = []any{}
	}
	var result any
	if err := c.ExecuteKw(ctx, model, "search_count", []any{domain}, nil, &result); err != nil {
		return 0, err
	}
	n, ok := asInt(result)
	if !ok {
		return 0, &APIError{Op: model + ".search_count", Err: fmt.Errorf("unexpected result %T", result)}
	}
	return n, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
