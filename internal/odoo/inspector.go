package odoo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Shamlan321/OdooSense/internal/logger"
	"github.com/Shamlan321/OdooSense/internal/router"
)

// moduleModels maps each routable domain to the model its access probe hits.
var moduleModels = []struct {
	Module router.Module
	Model  string
}{
	{router.CRM, "crm.lead"},
	{router.Sales, "sale.order"},
	{router.Inventory, "product.product"},
	{router.Manufacturing, "mrp.production"},
	{router.Purchase, "purchase.order"},
	{router.Accounting, "account.move"},
	{router.Employees, "hr.employee"},
	{router.StockMoves, "stock.move"},
	{router.Website, "website.page"},
	{router.Ecommerce, "product.template"},
}

// assistantModels are the models the gateway queries; the inspector restricts
// field introspection and access-rule dumps to them.
var assistantModels = []string{
	"crm.lead", "sale.order", "sale.order.line", "purchase.order", "purchase.order.line",
	"product.product", "product.template", "stock.move", "mrp.production", "account.move",
	"hr.employee", "website.page",
}

type ModuleInfo struct {
	Name          string `json:"name"`
	State         string `json:"state"`
	LatestVersion string `json:"latest_version"`
	ShortDesc     string `json:"shortdesc"`
	Summary       string `json:"summary"`
}

type ModelInfo struct {
	Model     string `json:"model"`
	Name      string `json:"name"`
	State     string `json:"state"`
	Transient bool   `json:"transient"`
}

type FieldInfo struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type AccessRule struct {
	Name       string `json:"name"`
	Model      string `json:"model"`
	PermRead   bool   `json:"perm_read"`
	PermWrite  bool   `json:"perm_write"`
	PermCreate bool   `json:"perm_create"`
	PermUnlink bool   `json:"perm_unlink"`
}

// Report is the full inspection result, shaped for the JSON report file.
type Report struct {
	GeneratedAt time.Time              `json:"generated_at"`
	URL         string                 `json:"url"`
	Database    string                 `json:"database"`
	UID         int                    `json:"uid"`
	Server      *ServerVersion         `json:"server"`
	Modules     []ModuleInfo           `json:"installed_modules"`
	Models      []ModelInfo            `json:"models,omitempty"`
	Fields      map[string][]FieldInfo `json:"fields,omitempty"`
	Access      []AccessRule           `json:"model_access,omitempty"`
}

// AccessResult is one row of the per-module access check.
type AccessResult struct {
	Module router.Module `json:"module"`
	Model  string        `json:"model"`
	Status string        `json:"status"`
	Count  int           `json:"record_count"`
	Sample []string      `json:"sample,omitempty"`
	Error  string        `json:"error,omitempty"`
}

const (
	AccessOK     = "accessible"
	AccessDenied = "denied"
	AccessFailed = "failed"
)

// Inspector interrogates the server about itself: version, installed addons,
// model catalog, field metadata and access rights.
type Inspector struct {
	erp Caller
	url string
	db  string
}

func NewInspector(c Caller, url, db string) *Inspector {
	return &Inspector{erp: c, url: url, db: db}
}

// Inspect gathers the full server report.
func (i *Inspector) Inspect(ctx context.Context) (*Report, error) {
	report := &Report{
		GeneratedAt: time.Now(),
		URL:         i.url,
		Database:    i.db,
		Fields:      make(map[string][]FieldInfo),
	}

	version, err := i.erp.Version(ctx)
	if err != nil {
		return nil, err
	}
	report.Server = version

	uid, err := i.erp.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	report.UID = uid

	modules, err := i.InstalledModules(ctx)
	if err != nil {
		return nil, err
	}
	report.Modules = modules

	var models []Record
	err = i.erp.SearchRead(ctx, "ir.model",
		[]any{[]any{"model", "in", assistantModels}},
		[]string{"model", "name", "state", "transient"}, 0, &models)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		transient, _ := m["transient"].(bool)
		report.Models = append(report.Models, ModelInfo{
			Model:     Str(m, "model"),
			Name:      Str(m, "name"),
			State:     Str(m, "state"),
			Transient: transient,
		})
	}

	for _, model := range assistantModels {
		fields, err := i.modelFields(ctx, model)
		if err != nil {
			// A missing addon makes its model unknown; record nothing and
			// keep inspecting the rest.
			logger.Warn().Str("model", model).Err(err).Msg("field introspection failed")
			continue
		}
		report.Fields[model] = fields
	}

	access, err := i.accessRules(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("access rules not readable")
	} else {
		report.Access = access
	}

	return report, nil
}

// InstalledModules lists every installed addon.
func (i *Inspector) InstalledModules(ctx context.Context) ([]ModuleInfo, error) {
	var records []Record
	err := i.erp.SearchRead(ctx, "ir.module.module",
		[]any{[]any{"state", "=", "installed"}},
		[]string{"name", "state", "latest_version", "shortdesc", "summary"}, 0, &records)
	if err != nil {
		return nil, err
	}
	modules := make([]ModuleInfo, 0, len(records))
	for _, r := range records {
		modules = append(modules, ModuleInfo{
			Name:          Str(r, "name"),
			State:         Str(r, "state"),
			LatestVersion: Str(r, "latest_version"),
			ShortDesc:     Str(r, "shortdesc"),
			Summary:       Str(r, "summary"),
		})
	}
	return modules, nil
}

func (i *Inspector) modelFields(ctx context.Context, model string) ([]FieldInfo, error) {
	var raw map[string]map[string]any
	err := i.erp.ExecuteKw(ctx, model, "fields_get", []any{},
		map[string]any{"attributes": []string{"string", "type", "required"}}, &raw)
	if err != nil {
		return nil, err
	}
	fields := make([]FieldInfo, 0, len(raw))
	for name, attrs := range raw {
		label, _ := attrs["string"].(string)
		ftype, _ := attrs["type"].(string)
		required, _ := attrs["required"].(bool)
		fields = append(fields, FieldInfo{Name: name, Label: label, Type: ftype, Required: required})
	}
	return fields, nil
}

func (i *Inspector) accessRules(ctx context.Context) ([]AccessRule, error) {
	var records []Record
	err := i.erp.SearchRead(ctx, "ir.model.access",
		[]any{[]any{"model_id.model", "in", assistantModels}},
		[]string{"name", "model_id", "perm_read", "perm_write", "perm_create", "perm_unlink"}, 0, &records)
	if err != nil {
		return nil, err
	}
	rules := make([]AccessRule, 0, len(records))
	for _, r := range records {
		read, _ := r["perm_read"].(bool)
		write, _ := r["perm_write"].(bool)
		create, _ := r["perm_create"].(bool)
		unlink, _ := r["perm_unlink"].(bool)
		rules = append(rules, AccessRule{
			Name:       Str(r, "name"),
			Model:      Relation(r, "model_id"),
			PermRead:   read,
			PermWrite:  write,
			PermCreate: create,
			PermUnlink: unlink,
		})
	}
	return rules, nil
}

// CheckAccess probes every routable module with a small query and classifies
// the result. The Accounting probe falls back to an unfiltered domain before
// reporting failure, since some databases restrict posted-invoice filters.
func (i *Inspector) CheckAccess(ctx context.Context) []AccessResult {
	results := make([]AccessResult, 0, len(moduleModels))
	for _, mm := range moduleModels {
		results = append(results, i.probe(ctx, mm.Module, mm.Model))
	}
	return results
}

func (i *Inspector) probe(ctx context.Context, module router.Module, model string) AccessResult {
	res := AccessResult{Module: module, Model: model}

	domain := probeDomain(module)
	count, err := i.erp.SearchCount(ctx, model, domain)
	if err != nil && module == router.Accounting {
		domain = nil
		count, err = i.erp.SearchCount(ctx, model, domain)
	}
	if err != nil {
		res.Status = classifyProbe(err)
		res.Error = err.Error()
		return res
	}
	res.Count = count

	var sample []Record
	if err := i.erp.SearchRead(ctx, model, domain, []string{"name"}, 3, &sample); err != nil {
		res.Status = classifyProbe(err)
		res.Error = err.Error()
		return res
	}
	for _, r := range sample {
		if name := Str(r, "name"); name != "" {
			res.Sample = append(res.Sample, name)
		}
	}
	res.Status = AccessOK
	return res
}

func probeDomain(module router.Module) []any {
	switch module {
	case router.Accounting:
		return []any{[]any{"move_type", "=", "out_invoice"}}
	case router.Inventory:
		return []any{[]any{"type", "=", "product"}}
	case router.Ecommerce:
		return []any{[]any{"website_published", "=", true}}
	default:
		return nil
	}
}

func classifyProbe(err error) string {
	if IsAuthError(err) {
		return AccessDenied
	}
	return AccessFailed
}

// SaveReport writes v as indented JSON to a timestamped file next to the
// binary and returns the path.
func SaveReport(v any, prefix string) (string, error) {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	path := fmt.Sprintf("%s_%s.json", prefix, time.Now().Format("20060102_150405"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
