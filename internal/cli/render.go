package cli

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/Shamlan321/OdooSense/internal/odoo"
)

// FormatDataset renders fetched records as an indented text report, section
// by section.
func FormatDataset(ds *odoo.Dataset) string {
	if ds == nil || ds.Total() == 0 {
		return statusStyle.Render("No records to show.")
	}

	var b strings.Builder
	for i, section := range ds.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("📂 %s (%d)", section.Name, len(section.Records))))
		b.WriteString("\n")
		if len(section.Records) == 0 {
			b.WriteString(statusStyle.Render("  (empty)"))
			b.WriteString("\n")
			continue
		}
		for _, r := range section.Records {
			b.WriteString(recordStyle.Render("  • " + formatRecord(section.Model, r)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// formatRecord renders one record on a single line, picking the fields that
// matter for its model.
func formatRecord(model string, r odoo.Record) string {
	switch model {
	case "crm.lead":
		line := odoo.Str(r, "name")
		if partner := odoo.Relation(r, "partner_id"); partner != "" {
			line += " — " + partner
		}
		if email := odoo.Str(r, "email_from"); email != "" {
			line += " <" + email + ">"
		}
		if stage := odoo.Relation(r, "stage_id"); stage != "" {
			line += " [" + stage + "]"
		}
		if desc := StripHTML(odoo.Str(r, "description")); desc != "" {
			line += " — " + truncateString(desc, 60)
		}
		return line

	case "sale.order", "purchase.order":
		return fmt.Sprintf("%s — %s — %s (%s)",
			odoo.Str(r, "name"),
			odoo.Relation(r, "partner_id"),
			money(r, "amount_total"),
			odoo.Str(r, "state"))

	case "sale.order.line", "purchase.order.line":
		qty := odoo.Float(r, "product_uom_qty")
		if qty == 0 {
			qty = odoo.Float(r, "product_qty")
		}
		return fmt.Sprintf("%s ×%s @ %s = %s",
			odoo.Relation(r, "product_id"),
			decimal.NewFromFloat(qty).String(),
			money(r, "price_unit"),
			money(r, "price_subtotal"))

	case "product.product":
		return fmt.Sprintf("%s — on hand %s, forecast %s (in %s / out %s)",
			odoo.Str(r, "name"),
			qtyString(r, "qty_available"),
			qtyString(r, "virtual_available"),
			qtyString(r, "incoming_qty"),
			qtyString(r, "outgoing_qty"))

	case "stock.move":
		return fmt.Sprintf("%s ×%s: %s → %s (%s)",
			odoo.Str(r, "name"),
			qtyString(r, "product_uom_qty"),
			odoo.Relation(r, "location_id"),
			odoo.Relation(r, "location_dest_id"),
			odoo.Str(r, "state"))

	case "mrp.production":
		return fmt.Sprintf("%s — %s ×%s (%s)",
			odoo.Str(r, "name"),
			odoo.Relation(r, "product_id"),
			qtyString(r, "product_qty"),
			odoo.Str(r, "state"))

	case "account.move":
		line := fmt.Sprintf("%s — %s — %s (%s",
			odoo.Str(r, "name"),
			odoo.Relation(r, "partner_id"),
			money(r, "amount_total"),
			odoo.Str(r, "state"))
		if pay := odoo.Str(r, "payment_state"); pay != "" {
			line += ", " + pay
		}
		return line + ")"

	case "hr.employee":
		line := odoo.Str(r, "name")
		if job := odoo.Str(r, "job_title"); job != "" {
			line += ", " + job
		}
		if dept := odoo.Relation(r, "department_id"); dept != "" {
			line += " — " + dept
		}
		if mail := odoo.Str(r, "work_email"); mail != "" {
			line += " <" + mail + ">"
		}
		return line

	case "website.page":
		return fmt.Sprintf("%s (%s)", odoo.Str(r, "name"), odoo.Str(r, "url"))

	case "product.template":
		return fmt.Sprintf("%s — %s", odoo.Str(r, "name"), money(r, "list_price"))

	default:
		return odoo.Str(r, "name")
	}
}

// money renders a float field with two fixed decimals, avoiding the binary
// float artifacts fmt would print for Odoo amounts.
func money(r odoo.Record, field string) string {
	return decimal.NewFromFloat(odoo.Float(r, field)).StringFixed(2)
}

func qtyString(r odoo.Record, field string) string {
	return decimal.NewFromFloat(odoo.Float(r, field)).String()
}

// StripHTML flattens an HTML fragment to its text. Odoo stores description
// and note fields as HTML.
func StripHTML(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
