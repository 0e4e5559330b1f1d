package odoo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Shamlan321/OdooSense/internal/router"
)

type searchReadCall struct {
	Model  string
	Domain []any
	Fields []string
	Limit  int
}

// fakeCaller scripts ERP responses per call and records what was asked.
type fakeCaller struct {
	searchReads  []searchReadCall
	executeKws   []string
	searchReadFn func(call searchReadCall, n int) ([]Record, error)
	countFn      func(model string, domain []any, n int) (int, error)
	executeKwFn  func(model, method string, args []any) error
}

func (f *fakeCaller) Authenticate(ctx context.Context) (int, error) { return 1, nil }

func (f *fakeCaller) Version(ctx context.Context) (*ServerVersion, error) {
	return &ServerVersion{ServerVersion: "17.0"}, nil
}

func (f *fakeCaller) SearchRead(ctx context.Context, model string, domain []any, fields []string, limit int, out any) error {
	call := searchReadCall{Model: model, Domain: domain, Fields: fields, Limit: limit}
	f.searchReads = append(f.searchReads, call)
	if f.searchReadFn == nil {
		return nil
	}
	records, err := f.searchReadFn(call, len(f.searchReads))
	if err != nil {
		return err
	}
	*(out.(*[]Record)) = records
	return nil
}

func (f *fakeCaller) SearchCount(ctx context.Context, model string, domain []any) (int, error) {
	if f.countFn == nil {
		return 0, nil
	}
	return f.countFn(model, domain, 0)
}

func (f *fakeCaller) ExecuteKw(ctx context.Context, model, method string, args []any, kw map[string]any, out any) error {
	f.executeKws = append(f.executeKws, model+"."+method)
	if f.executeKwFn == nil {
		return nil
	}
	return f.executeKwFn(model, method, args)
}

func testGateway(f *fakeCaller) *Gateway {
	g := NewGateway(f)
	g.retry.delay = 0
	return g
}

func TestFetchRetriesOnceOnConnectionError(t *testing.T) {
	fake := &fakeCaller{
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			if n == 1 {
				return nil, &ConnectionError{URL: "http://erp", Err: errors.New("refused")}
			}
			return []Record{{"id": float64(1), "name": "Lead A"}}, nil
		},
	}

	ds, err := testGateway(fake).Fetch(context.Background(), router.CRM)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fake.searchReads) != 2 {
		t.Errorf("server hit %d times, want 2 (one retry)", len(fake.searchReads))
	}
	if ds.Total() != 1 {
		t.Errorf("records = %d, want 1", ds.Total())
	}
}

func TestFetchGivesUpAfterOneRetry(t *testing.T) {
	fake := &fakeCaller{
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			return nil, &ConnectionError{URL: "http://erp", Err: errors.New("refused")}
		},
	}

	_, err := testGateway(fake).Fetch(context.Background(), router.CRM)
	if !IsConnectionError(err) {
		t.Fatalf("err = %v, want *ConnectionError", err)
	}
	if len(fake.searchReads) != 2 {
		t.Errorf("server hit %d times, want exactly 2", len(fake.searchReads))
	}
}

func TestFetchDoesNotRetryAuthError(t *testing.T) {
	fake := &fakeCaller{
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			return nil, &AuthError{Database: "db", Username: "svc"}
		},
	}

	_, err := testGateway(fake).Fetch(context.Background(), router.Sales)
	if !IsAuthError(err) {
		t.Fatalf("err = %v, want *AuthError", err)
	}
	if len(fake.searchReads) != 1 {
		t.Errorf("server hit %d times, want 1 (no retry)", len(fake.searchReads))
	}
}

func TestFetchDoesNotRetryAPIError(t *testing.T) {
	fake := &fakeCaller{
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			return nil, &APIError{Op: "crm.lead.search_read", Err: errors.New("invalid field")}
		},
	}

	_, err := testGateway(fake).Fetch(context.Background(), router.CRM)
	if !IsAPIError(err) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if len(fake.searchReads) != 1 {
		t.Errorf("server hit %d times, want 1", len(fake.searchReads))
	}
}

func TestFetchSalesIncludesOrderLines(t *testing.T) {
	fake := &fakeCaller{
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			switch call.Model {
			case "sale.order":
				return []Record{
					{"id": float64(11), "name": "SO011"},
					{"id": float64(12), "name": "SO012"},
				}, nil
			case "sale.order.line":
				return []Record{{"id": float64(1), "order_id": []any{float64(11), "SO011"}}}, nil
			}
			return nil, fmt.Errorf("unexpected model %s", call.Model)
		},
	}

	ds, err := testGateway(fake).Fetch(context.Background(), router.Sales)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(ds.Sections) != 2 {
		t.Fatalf("sections = %d, want orders + lines", len(ds.Sections))
	}
	if ds.Total() != 3 {
		t.Errorf("total records = %d, want 3", ds.Total())
	}

	lineCall := fake.searchReads[1]
	if lineCall.Model != "sale.order.line" {
		t.Fatalf("second query hit %s", lineCall.Model)
	}
	clause, ok := lineCall.Domain[0].([]any)
	if !ok || clause[0] != "order_id" || clause[1] != "in" {
		t.Fatalf("line domain = %v", lineCall.Domain)
	}
	ids, _ := clause[2].([]any)
	if len(ids) != 2 {
		t.Errorf("line domain ids = %v, want the two order ids", ids)
	}
}

func TestFetchSalesWithoutOrdersSkipsLines(t *testing.T) {
	fake := &fakeCaller{}

	ds, err := testGateway(fake).Fetch(context.Background(), router.Sales)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fake.searchReads) != 1 {
		t.Errorf("queries = %d, want 1 (no line query for zero orders)", len(fake.searchReads))
	}
	if got := ds.Status(); got != "No records found in the Sales module." {
		t.Errorf("Status() = %q", got)
	}
}

func TestFetchUnsupportedModule(t *testing.T) {
	fake := &fakeCaller{}

	_, err := testGateway(fake).Fetch(context.Background(), router.Unknown)
	if !IsAPIError(err) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if len(fake.searchReads) != 0 {
		t.Errorf("unsupported module still queried the server %d times", len(fake.searchReads))
	}
}

func TestFetchModuleQueries(t *testing.T) {
	cases := []struct {
		module    router.Module
		wantModel string
	}{
		{router.CRM, "crm.lead"},
		{router.Inventory, "product.product"},
		{router.StockMoves, "stock.move"},
		{router.Manufacturing, "mrp.production"},
		{router.Employees, "hr.employee"},
		{router.Website, "website.page"},
		{router.Ecommerce, "product.template"},
	}

	for _, tc := range cases {
		t.Run(string(tc.module), func(t *testing.T) {
			fake := &fakeCaller{}
			if _, err := testGateway(fake).Fetch(context.Background(), tc.module); err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if fake.searchReads[0].Model != tc.wantModel {
				t.Errorf("queried %s, want %s", fake.searchReads[0].Model, tc.wantModel)
			}
		})
	}
}

func TestFetchAccountingQueriesBothInvoiceTypes(t *testing.T) {
	fake := &fakeCaller{}
	ds, err := testGateway(fake).Fetch(context.Background(), router.Accounting)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(ds.Sections) != 2 {
		t.Fatalf("sections = %d, want customer invoices + vendor bills", len(ds.Sections))
	}
	for i, want := range []string{"out_invoice", "in_invoice"} {
		clause := fake.searchReads[i].Domain[0].([]any)
		if clause[2] != want {
			t.Errorf("query %d filters on %v, want %s", i, clause[2], want)
		}
	}
}

func TestCheckModuleInstalled(t *testing.T) {
	fake := &fakeCaller{
		countFn: func(model string, domain []any, n int) (int, error) {
			if model != "ir.module.module" {
				t.Errorf("counted %s", model)
			}
			return 1, nil
		},
	}
	ok, err := testGateway(fake).CheckModuleInstalled(context.Background(), "stock")
	if err != nil || !ok {
		t.Errorf("CheckModuleInstalled = %v, %v", ok, err)
	}
}

func TestInstallModule(t *testing.T) {
	fake := &fakeCaller{
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			return []Record{{"id": float64(44), "name": "stock", "state": "uninstalled"}}, nil
		},
	}

	res, err := testGateway(fake).InstallModule(context.Background(), "stock")
	if err != nil {
		t.Fatalf("InstallModule: %v", err)
	}
	if res.AlreadyInstalled {
		t.Error("fresh install reported as already installed")
	}
	if len(fake.executeKws) != 1 || fake.executeKws[0] != "ir.module.module.button_immediate_install" {
		t.Errorf("executeKws = %v", fake.executeKws)
	}
}

func TestInstallModuleAlreadyInstalled(t *testing.T) {
	fake := &fakeCaller{
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			return []Record{{"id": float64(44), "name": "stock", "state": "installed"}}, nil
		},
	}

	res, err := testGateway(fake).InstallModule(context.Background(), "stock")
	if err != nil {
		t.Fatalf("InstallModule: %v", err)
	}
	if !res.AlreadyInstalled {
		t.Error("installed module not reported as such")
	}
	if len(fake.executeKws) != 0 {
		t.Errorf("install was triggered anyway: %v", fake.executeKws)
	}
}

func TestInstallModuleNotFound(t *testing.T) {
	fake := &fakeCaller{}
	_, err := testGateway(fake).InstallModule(context.Background(), "doesnotexist")
	if !IsAPIError(err) {
		t.Fatalf("err = %v, want *APIError", err)
	}
}

func TestCheckAccessClassification(t *testing.T) {
	fake := &fakeCaller{
		countFn: func(model string, domain []any, n int) (int, error) {
			switch model {
			case "hr.employee":
				return 0, &AuthError{Database: "db", Username: "svc"}
			case "mrp.production":
				return 0, &APIError{Op: "mrp.production.search_count", Err: errors.New("unknown model")}
			default:
				return 5, nil
			}
		},
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			return []Record{{"id": float64(1), "name": "Sample"}}, nil
		},
	}

	inspector := NewInspector(fake, "http://erp", "db")
	results := inspector.CheckAccess(context.Background())

	byModule := map[router.Module]AccessResult{}
	for _, r := range results {
		byModule[r.Module] = r
	}

	if got := byModule[router.CRM]; got.Status != AccessOK || got.Count != 5 {
		t.Errorf("CRM probe = %+v", got)
	}
	if got := byModule[router.Employees]; got.Status != AccessDenied {
		t.Errorf("Employees probe = %+v, want denied", got)
	}
	if got := byModule[router.Manufacturing]; got.Status != AccessFailed {
		t.Errorf("Manufacturing probe = %+v, want failed", got)
	}
	if sample := byModule[router.Sales].Sample; len(sample) != 1 || sample[0] != "Sample" {
		t.Errorf("Sales sample = %v", sample)
	}
}

func TestCheckAccessAccountingFallback(t *testing.T) {
	var accountDomains [][]any
	fake := &fakeCaller{
		countFn: func(model string, domain []any, n int) (int, error) {
			if model == "account.move" {
				accountDomains = append(accountDomains, domain)
				if len(accountDomains) == 1 {
					return 0, &APIError{Op: "account.move.search_count", Err: errors.New("filter rejected")}
				}
			}
			return 2, nil
		},
		searchReadFn: func(call searchReadCall, n int) ([]Record, error) {
			return nil, nil
		},
	}

	results := NewInspector(fake, "http://erp", "db").CheckAccess(context.Background())
	for _, r := range results {
		if r.Module == router.Accounting {
			if r.Status != AccessOK || r.Count != 2 {
				t.Errorf("Accounting probe = %+v, want fallback success", r)
			}
		}
	}
	if len(accountDomains) != 2 {
		t.Fatalf("account.move counted %d times, want filtered then unfiltered", len(accountDomains))
	}
	if accountDomains[0] == nil || accountDomains[1] != nil {
		t.Errorf("fallback domains = %v", accountDomains)
	}
}

func TestDatasetStatusWording(t *testing.T) {
	ds := &Dataset{Module: router.Sales, Sections: []Section{
		{Name: "Sales Orders", Records: []Record{{"id": 1.0}, {"id": 2.0}}},
		{Name: "Order Lines", Records: []Record{{"id": 3.0}}},
	}}
	if got := ds.Status(); !strings.Contains(got, "3 records") || !strings.Contains(got, "Sales") {
		t.Errorf("Status() = %q", got)
	}
}
