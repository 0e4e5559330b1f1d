package cli

import (
	"strings"
	"testing"

	"github.com/Shamlan321/OdooSense/internal/odoo"
	"github.com/Shamlan321/OdooSense/internal/router"
)

func TestFormatRecordCRMLead(t *testing.T) {
	r := odoo.Record{
		"name":        "Website Inquiry",
		"partner_id":  []any{float64(7), "Azure Interior"},
		"email_from":  "azure@example.com",
		"stage_id":    []any{float64(2), "Qualified"},
		"description": "<p>Needs <b>20 desks</b> by June</p>",
	}

	got := formatRecord("crm.lead", r)
	want := "Website Inquiry — Azure Interior <azure@example.com> [Qualified] — Needs 20 desks by June"
	if got != want {
		t.Fatalf("formatRecord = %q, want %q", got, want)
	}
}

// Odoo sends false for empty fields. Those must not leak into the output.
func TestFormatRecordOmitsEmptyFields(t *testing.T) {
	r := odoo.Record{
		"name":        "Bare Lead",
		"partner_id":  false,
		"email_from":  false,
		"stage_id":    false,
		"description": false,
	}

	if got := formatRecord("crm.lead", r); got != "Bare Lead" {
		t.Fatalf("formatRecord = %q, want %q", got, "Bare Lead")
	}
}

func TestFormatRecordOrders(t *testing.T) {
	r := odoo.Record{
		"name":         "S00042",
		"partner_id":   []any{float64(7), "Azure Interior"},
		"amount_total": 1234.5,
		"state":        "sale",
	}

	got := formatRecord("sale.order", r)
	want := "S00042 — Azure Interior — 1234.50 (sale)"
	if got != want {
		t.Fatalf("formatRecord = %q, want %q", got, want)
	}
}

func TestFormatRecordOrderLines(t *testing.T) {
	sale := odoo.Record{
		"product_id":      []any{float64(11), "Office Desk"},
		"product_uom_qty": float64(3),
		"price_unit":      250.0,
		"price_subtotal":  750.0,
	}
	if got := formatRecord("sale.order.line", sale); got != "Office Desk ×3 @ 250.00 = 750.00" {
		t.Fatalf("sale line = %q", got)
	}

	// Purchase lines carry product_qty instead of product_uom_qty.
	purchase := odoo.Record{
		"product_id":     []any{float64(12), "LED Lamp"},
		"product_qty":    float64(10),
		"price_unit":     19.99,
		"price_subtotal": 199.9,
	}
	if got := formatRecord("purchase.order.line", purchase); got != "LED Lamp ×10 @ 19.99 = 199.90" {
		t.Fatalf("purchase line = %q", got)
	}
}

func TestFormatRecordProduct(t *testing.T) {
	r := odoo.Record{
		"name":              "Office Desk",
		"qty_available":     float64(42),
		"virtual_available": float64(40),
		"incoming_qty":      float64(5),
		"outgoing_qty":      float64(7),
	}

	got := formatRecord("product.product", r)
	want := "Office Desk — on hand 42, forecast 40 (in 5 / out 7)"
	if got != want {
		t.Fatalf("formatRecord = %q, want %q", got, want)
	}
}

func TestFormatRecordStockMove(t *testing.T) {
	r := odoo.Record{
		"name":             "Office Desk",
		"product_uom_qty":  float64(4),
		"location_id":      []any{float64(8), "WH/Stock"},
		"location_dest_id": []any{float64(5), "Partners/Customers"},
		"state":            "done",
	}

	got := formatRecord("stock.move", r)
	want := "Office Desk ×4: WH/Stock → Partners/Customers (done)"
	if got != want {
		t.Fatalf("formatRecord = %q, want %q", got, want)
	}
}

func TestFormatRecordInvoice(t *testing.T) {
	r := odoo.Record{
		"name":          "INV/2026/00017",
		"partner_id":    []any{float64(7), "Azure Interior"},
		"amount_total":  480.0,
		"state":         "posted",
		"payment_state": "not_paid",
	}
	if got := formatRecord("account.move", r); got != "INV/2026/00017 — Azure Interior — 480.00 (posted, not_paid)" {
		t.Fatalf("formatRecord = %q", got)
	}

	delete(r, "payment_state")
	if got := formatRecord("account.move", r); got != "INV/2026/00017 — Azure Interior — 480.00 (posted)" {
		t.Fatalf("formatRecord without payment state = %q", got)
	}
}

func TestFormatRecordFallsBackToName(t *testing.T) {
	r := odoo.Record{"name": "Something"}
	if got := formatRecord("res.partner", r); got != "Something" {
		t.Fatalf("formatRecord = %q, want %q", got, "Something")
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"<div>line one</div><div>line two</div>", "line oneline two"},
		{"<p>spread\n  across\n  lines</p>", "spread across lines"},
	}

	for _, c := range cases {
		if got := StripHTML(c.in); got != c.want {
			t.Errorf("StripHTML(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatDataset(t *testing.T) {
	ds := &odoo.Dataset{
		Module: router.Accounting,
		Sections: []odoo.Section{
			{
				Name:  "Customer Invoices",
				Model: "account.move",
				Records: []odoo.Record{
					{"name": "INV/2026/00017", "partner_id": []any{float64(7), "Azure Interior"}, "amount_total": 480.0, "state": "posted"},
				},
			},
			{Name: "Vendor Bills", Model: "account.move"},
		},
	}

	out := FormatDataset(ds)
	for _, want := range []string{
		"📂 Customer Invoices (1)",
		"• INV/2026/00017",
		"📂 Vendor Bills (0)",
		"(empty)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDataset output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDatasetEmpty(t *testing.T) {
	if out := FormatDataset(nil); !strings.Contains(out, "No records to show.") {
		t.Fatalf("nil dataset: %q", out)
	}

	ds := &odoo.Dataset{Module: router.CRM}
	if out := FormatDataset(ds); !strings.Contains(out, "No records to show.") {
		t.Fatalf("empty dataset: %q", out)
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Fatalf("truncateString = %q", got)
	}
	if got := truncateString("abcdefghij", 8); got != "abcde..." {
		t.Fatalf("truncateString = %q", got)
	}
}
