package router

import "testing"

func TestRoute(t *testing.T) {
	cases := []struct {
		query string
		want  Module
	}{
		{"Show manufacturing orders", Manufacturing},
		{"List pending sales orders", Sales},
		{"Show me this month's quotations", Sales},
		{"Which leads came in this week?", CRM},
		{"What's in the opportunity pipeline?", CRM},
		{"Show purchase orders from Azure Interior", Purchase},
		{"Any open PO for office chairs?", Purchase},
		{"How much stock do we have?", Inventory},
		{"Products with low on hand quantity", Inventory},
		{"Show unpaid invoices", Accounting},
		{"List customer payments this quarter", Accounting},
		{"Who is on staff right now?", Employees},
		{"Show hr records", Employees},
		{"List website pages", Website},
		{"Which products are in the online store?", Ecommerce},
		{"xyzzy plugh", Unknown},
		{"", Unknown},
	}

	for _, c := range cases {
		if got := Route(c.query); got != c.want {
			t.Errorf("Route(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

// Specific rules sit above the generic rules whose keywords they contain, so
// "vendor bill" must never fall through to Accounting and "stock move" must
// never fall through to Inventory.
func TestRoutePrecedence(t *testing.T) {
	cases := []struct {
		query string
		want  Module
	}{
		{"Show vendor bills", VendorBills},
		{"Any supplier invoice still open?", VendorBills},
		{"Show stock moves for today", StockMoves},
		{"Transfer stock between locations", StockMoves},
		{"Employee sales performance", Employees},
		{"Manufacturing stock consumption", Manufacturing},
	}

	for _, c := range cases {
		if got := Route(c.query); got != c.want {
			t.Errorf("Route(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

// Short tokens match whole words only. "mo" inside "tomorrow" or "po" inside
// "report" must not trigger a module.
func TestRouteWordBoundaries(t *testing.T) {
	cases := []struct {
		query string
		want  Module
	}{
		{"What is on the agenda tomorrow?", Unknown},
		{"That report was important", Unknown},
		{"It took three hours", Unknown},
		{"Show MO list", Manufacturing},
		{"po 42 status", Purchase},
		{"hr headcount", Employees},
	}

	for _, c := range cases {
		if got := Route(c.query); got != c.want {
			t.Errorf("Route(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestIsConversational(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"Hello", true},
		{"hi there", true},
		{"How are you doing today?", true},
		{"Thanks a lot!", true},
		{"Good morning", true},
		{"goodbye", true},
		{"Show sales orders", false},
		{"Which leads came in this week?", false},
		{"What is this thing?", false},
		{"The shipment is high priority", false},
	}

	for _, c := range cases {
		if got := IsConversational(c.query); got != c.want {
			t.Errorf("IsConversational(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestInstallIntent(t *testing.T) {
	cases := []struct {
		query      string
		wantModule string
		wantOK     bool
	}{
		{"install the inventory module", "stock", true},
		{"Can you install manufacturing?", "mrp", true},
		{"install crm", "crm", true},
		{"please install sales", "sale_management", true},
		{"install the accounting module", "account", true},
		{"install hr", "hr", true},
		{"install website", "website", true},
		{"install purchase", "purchase", true},
		{"install", "", false},
		{"show sales orders", "", false},
		{"installment plans for purchases", "", false},
	}

	for _, c := range cases {
		got, ok := InstallIntent(c.query)
		if got != c.wantModule || ok != c.wantOK {
			t.Errorf("InstallIntent(%q) = (%q, %v), want (%q, %v)",
				c.query, got, ok, c.wantModule, c.wantOK)
		}
	}
}

func TestKnownListsEveryRoutableModule(t *testing.T) {
	known := Known()
	if len(known) != 11 {
		t.Fatalf("Known() returned %d modules, want 11", len(known))
	}
	for _, m := range known {
		if m == Unknown {
			t.Fatalf("Known() must not include Unknown")
		}
		if m.Label() == "Unknown" {
			t.Errorf("module %q has no label", m)
		}
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		module Module
		want   string
	}{
		{CRM, "CRM"},
		{StockMoves, "Stock Moves"},
		{Ecommerce, "eCommerce"},
		{VendorBills, "Vendor Bills"},
		{Unknown, "Unknown"},
		{Module("bogus"), "Unknown"},
	}

	for _, c := range cases {
		if got := c.module.Label(); got != c.want {
			t.Errorf("Label(%v) = %q, want %q", c.module, got, c.want)
		}
	}
}
