package odoo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shamlan321/OdooSense/internal/logger"
	"github.com/Shamlan321/OdooSense/internal/router"
)

// Caller is the slice of Client the gateway and inspector need; tests swap in
// fakes.
type Caller interface {
	Authenticate(ctx context.Context) (int, error)
	Version(ctx context.Context) (*ServerVersion, error)
	SearchRead(ctx context.Context, model string, domain []any, fields []string, limit int, out any) error
	SearchCount(ctx context.Context, model string, domain []any) (int, error)
	ExecuteKw(ctx context.Context, model, method string, args []any, kw map[string]any, out any) error
}

// Section is one named group of records inside a dataset, e.g. the order
// lines that accompany sales orders.
type Section struct {
	Name    string   `json:"name"`
	Model   string   `json:"model"`
	Records []Record `json:"records"`
}

// Dataset is the result of fetching one module domain: the record sections
// plus a status line for the prompt.
type Dataset struct {
	Module   router.Module `json:"module"`
	Sections []Section     `json:"sections"`
}

func (d *Dataset) Total() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Records)
	}
	return n
}

// AllRecords flattens every section, for conversation snapshots.
func (d *Dataset) AllRecords() []Record {
	out := make([]Record, 0, d.Total())
	for _, s := range d.Sections {
		out = append(out, s.Records...)
	}
	return out
}

// Status describes the fetch outcome in one human-readable line.
func (d *Dataset) Status() string {
	if d.Total() == 0 {
		return fmt.Sprintf("No records found in the %s module.", d.Module.Label())
	}
	return fmt.Sprintf("Retrieved %d records from the %s module.", d.Total(), d.Module.Label())
}

type retryConfig struct {
	attempts int
	delay    time.Duration
}

// Gateway translates a routed module domain into the record queries that
// serve it. Connection failures get exactly one retry; auth and API faults
// surface immediately.
type Gateway struct {
	erp   Caller
	retry retryConfig
}

func NewGateway(c Caller) *Gateway {
	return &Gateway{
		erp:   c,
		retry: retryConfig{attempts: 1, delay: time.Second},
	}
}

func (g *Gateway) withRetry(fn func() error) error {
	err := fn()
	for attempt := 0; attempt < g.retry.attempts && IsConnectionError(err); attempt++ {
		logger.Warn().Err(err).Msg("odoo unreachable, retrying once")
		time.Sleep(g.retry.delay)
		err = fn()
	}
	return err
}

// Fetch pulls the records for one module domain. The whole query set is
// retried once when the server is unreachable.
func (g *Gateway) Fetch(ctx context.Context, module router.Module) (*Dataset, error) {
	var ds *Dataset
	err := g.withRetry(func() error {
		var ferr error
		ds, ferr = g.fetch(ctx, module)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("module", string(module)).Int("records", ds.Total()).Msg("fetched ERP records")
	return ds, nil
}

func (g *Gateway) fetch(ctx context.Context, module router.Module) (*Dataset, error) {
	switch module {
	case router.CRM:
		return g.fetchCRM(ctx)
	case router.Sales:
		return g.fetchSales(ctx)
	case router.Purchase:
		return g.fetchPurchase(ctx)
	case router.Inventory:
		return g.fetchInventory(ctx)
	case router.StockMoves:
		return g.fetchStockMoves(ctx)
	case router.Manufacturing:
		return g.fetchManufacturing(ctx)
	case router.Accounting:
		return g.fetchAccounting(ctx, true)
	case router.VendorBills:
		return g.fetchAccounting(ctx, false)
	case router.Employees:
		return g.fetchEmployees(ctx)
	case router.Website:
		return g.fetchWebsite(ctx)
	case router.Ecommerce:
		return g.fetchEcommerce(ctx)
	default:
		return nil, &APIError{Op: "fetch:" + string(module), Err: errors.New("unsupported module")}
	}
}

func (g *Gateway) fetchCRM(ctx context.Context) (*Dataset, error) {
	var leads []Record
	err := g.erp.SearchRead(ctx, "crm.lead", nil,
		[]string{"name", "partner_id", "email_from", "phone", "type", "stage_id", "create_date", "description"},
		10, &leads)
	if err != nil {
		return nil, err
	}
	return &Dataset{Module: router.CRM, Sections: []Section{
		{Name: "Leads & Opportunities", Model: "crm.lead", Records: leads},
	}}, nil
}

func (g *Gateway) fetchSales(ctx context.Context) (*Dataset, error) {
	var orders []Record
	err := g.erp.SearchRead(ctx, "sale.order", nil,
		[]string{"name", "partner_id", "amount_total", "state", "date_order"},
		10, &orders)
	if err != nil {
		return nil, err
	}

	sections := []Section{{Name: "Sales Orders", Model: "sale.order", Records: orders}}
	if ids := recordIDs(orders); len(ids) > 0 {
		var lines []Record
		err = g.erp.SearchRead(ctx, "sale.order.line",
			[]any{[]any{"order_id", "in", ids}},
			[]string{"product_id", "product_uom_qty", "price_unit", "price_subtotal", "tax_id", "name", "order_id"},
			0, &lines)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Section{Name: "Order Lines", Model: "sale.order.line", Records: lines})
	}
	return &Dataset{Module: router.Sales, Sections: sections}, nil
}

func (g *Gateway) fetchPurchase(ctx context.Context) (*Dataset, error) {
	var orders []Record
	err := g.erp.SearchRead(ctx, "purchase.order", nil,
		[]string{"name", "partner_id", "amount_total", "state", "date_order", "date_planned"},
		10, &orders)
	if err != nil {
		return nil, err
	}

	sections := []Section{{Name: "Purchase Orders", Model: "purchase.order", Records: orders}}
	if ids := recordIDs(orders); len(ids) > 0 {
		var lines []Record
		err = g.erp.SearchRead(ctx, "purchase.order.line",
			[]any{[]any{"order_id", "in", ids}},
			[]string{"product_id", "product_qty", "price_unit", "price_subtotal", "taxes_id", "name", "order_id"},
			0, &lines)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Section{Name: "Order Lines", Model: "purchase.order.line", Records: lines})
	}
	return &Dataset{Module: router.Purchase, Sections: sections}, nil
}

func (g *Gateway) fetchInventory(ctx context.Context) (*Dataset, error) {
	var products []Record
	err := g.erp.SearchRead(ctx, "product.product",
		[]any{[]any{"type", "=", "product"}},
		[]string{"name", "qty_available", "virtual_available", "incoming_qty", "outgoing_qty"},
		20, &products)
	if err != nil {
		return nil, err
	}
	return &Dataset{Module: router.Inventory, Sections: []Section{
		{Name: "Stockable Products", Model: "product.product", Records: products},
	}}, nil
}

func (g *Gateway) fetchStockMoves(ctx context.Context) (*Dataset, error) {
	var moves []Record
	err := g.erp.SearchRead(ctx, "stock.move", nil,
		[]string{"name", "product_id", "product_uom_qty", "location_id", "location_dest_id", "state"},
		20, &moves)
	if err != nil {
		return nil, err
	}
	return &Dataset{Module: router.StockMoves, Sections: []Section{
		{Name: "Stock Moves", Model: "stock.move", Records: moves},
	}}, nil
}

func (g *Gateway) fetchManufacturing(ctx context.Context) (*Dataset, error) {
	var orders []Record
	err := g.erp.SearchRead(ctx, "mrp.production", nil,
		[]string{"name", "product_id", "product_qty", "state", "date_deadline", "date_start", "date_finished",
			"production_capacity", "components_availability_state"},
		10, &orders)
	if err != nil {
		return nil, err
	}
	return &Dataset{Module: router.Manufacturing, Sections: []Section{
		{Name: "Manufacturing Orders", Model: "mrp.production", Records: orders},
	}}, nil
}

var invoiceFields = []string{
	"name", "partner_id", "amount_total", "state", "invoice_date", "payment_state", "currency_id", "move_type",
}

func (g *Gateway) fetchAccounting(ctx context.Context, includeCustomer bool) (*Dataset, error) {
	module := router.Accounting
	var sections []Section

	if includeCustomer {
		var invoices []Record
		err := g.erp.SearchRead(ctx, "account.move",
			[]any{[]any{"move_type", "=", "out_invoice"}, []any{"state", "!=", "draft"}},
			invoiceFields, 10, &invoices)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Section{Name: "Customer Invoices", Model: "account.move", Records: invoices})
	} else {
		module = router.VendorBills
	}

	var bills []Record
	err := g.erp.SearchRead(ctx, "account.move",
		[]any{[]any{"move_type", "=", "in_invoice"}, []any{"state", "!=", "draft"}},
		invoiceFields, 10, &bills)
	if err != nil {
		return nil, err
	}
	sections = append(sections, Section{Name: "Vendor Bills", Model: "account.move", Records: bills})

	return &Dataset{Module: module, Sections: sections}, nil
}

func (g *Gateway) fetchEmployees(ctx context.Context) (*Dataset, error) {
	var employees []Record
	err := g.erp.SearchRead(ctx, "hr.employee", nil,
		[]string{"name", "job_title", "department_id", "work_email", "work_phone", "mobile_phone",
			"parent_id", "company_id", "resource_calendar_id", "employee_type"},
		20, &employees)
	if err != nil {
		return nil, err
	}
	return &Dataset{Module: router.Employees, Sections: []Section{
		{Name: "Employees", Model: "hr.employee", Records: employees},
	}}, nil
}

func (g *Gateway) fetchWebsite(ctx context.Context) (*Dataset, error) {
	var pages []Record
	err := g.erp.SearchRead(ctx, "website.page", nil,
		[]string{"name", "url", "website_published", "create_date"},
		10, &pages)
	if err != nil {
		return nil, err
	}
	return &Dataset{Module: router.Website, Sections: []Section{
		{Name: "Website Pages", Model: "website.page", Records: pages},
	}}, nil
}

func (g *Gateway) fetchEcommerce(ctx context.Context) (*Dataset, error) {
	var products []Record
	err := g.erp.SearchRead(ctx, "product.template",
		[]any{[]any{"website_published", "=", true}},
		[]string{"name", "list_price", "website_published", "website_url", "website_sequence"},
		10, &products)
	if err != nil {
		return nil, err
	}
	return &Dataset{Module: router.Ecommerce, Sections: []Section{
		{Name: "Published Products", Model: "product.template", Records: products},
	}}, nil
}

// InstallResult reports what a module-install request did.
type InstallResult struct {
	Module           string
	AlreadyInstalled bool
}

// CheckModuleInstalled reports whether a module is installed, by technical
// name.
func (g *Gateway) CheckModuleInstalled(ctx context.Context, name string) (bool, error) {
	n, err := g.erp.SearchCount(ctx, "ir.module.module",
		[]any{[]any{"name", "=", name}, []any{"state", "=", "installed"}})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InstallModule installs an addon by technical name. Installation is a
// mutation, so it is never retried.
func (g *Gateway) InstallModule(ctx context.Context, name string) (*InstallResult, error) {
	var mods []Record
	err := g.erp.SearchRead(ctx, "ir.module.module",
		[]any{[]any{"name", "=", name}},
		[]string{"name", "state"}, 1, &mods)
	if err != nil {
		return nil, err
	}
	if len(mods) == 0 {
		return nil, &APIError{Op: "install:" + name, Err: errors.New("module not found on the server")}
	}
	if Str(mods[0], "state") == "installed" {
		return &InstallResult{Module: name, AlreadyInstalled: true}, nil
	}

	id, _ := ID(mods[0])
	err = g.erp.ExecuteKw(ctx, "ir.module.module", "button_immediate_install", []any{[]any{id}}, nil, nil)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("module", name).Msg("installed odoo module")
	return &InstallResult{Module: name}, nil
}
