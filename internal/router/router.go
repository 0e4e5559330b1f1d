// Package router classifies free-text user queries into ERP module domains
// using an ordered keyword table. Classification is deterministic: the first
// rule with a matching keyword wins, and text that matches nothing routes to
// Unknown.
package router

import (
	"strings"
	"unicode"
)

type Module string

const (
	CRM           Module = "crm"
	Sales         Module = "sales"
	Inventory     Module = "inventory"
	Manufacturing Module = "manufacturing"
	Purchase      Module = "purchase"
	Accounting    Module = "accounting"
	Employees     Module = "employees"
	StockMoves    Module = "stock_moves"
	Website       Module = "website"
	Ecommerce     Module = "ecommerce"
	VendorBills   Module = "vendor_bills"
	Unknown       Module = "unknown"
)

// Label returns the human-readable module name used in banners and reports.
func (m Module) Label() string {
	switch m {
	case CRM:
		return "CRM"
	case Sales:
		return "Sales"
	case Inventory:
		return "Inventory"
	case Manufacturing:
		return "Manufacturing"
	case Purchase:
		return "Purchase"
	case Accounting:
		return "Accounting"
	case Employees:
		return "Employees"
	case StockMoves:
		return "Stock Moves"
	case Website:
		return "Website"
	case Ecommerce:
		return "eCommerce"
	case VendorBills:
		return "Vendor Bills"
	default:
		return "Unknown"
	}
}

// Known lists every routable module, in routing precedence order.
func Known() []Module {
	out := make([]Module, 0, len(rules))
	seen := map[Module]bool{}
	for _, r := range rules {
		if !seen[r.module] {
			seen[r.module] = true
			out = append(out, r.module)
		}
	}
	return out
}

// A rule matches either a phrase (substring of the lowercased query) or a
// whole word. Short tokens like "mo" and "po" are word-matched so they do not
// fire inside longer words.
type rule struct {
	module  Module
	phrases []string
	words   []string
}

// Order matters: more specific rules sit above the generic ones they would
// otherwise lose to ("stock move" above Inventory's "stock", "vendor bill"
// above Accounting's "invoice").
var rules = []rule{
	{Employees, []string{"employee", "staff", "worker", "personnel", "human resource"}, []string{"hr"}},
	{Manufacturing, []string{"manufactur", "production order", "work order"}, []string{"mo", "production"}},
	{Sales, []string{"sales", "sale order", "customer order", "quotation"}, nil},
	{Purchase, []string{"purchase", "supplier order", "vendor order", "procurement"}, []string{"po"}},
	{CRM, []string{"crm", "opportunit", "pipeline"}, []string{"lead", "leads"}},
	{StockMoves, []string{"stock move", "movement", "transfer", "location"}, nil},
	{Inventory, []string{"inventory", "stock level", "product quantity", "on hand", "available quantity"}, []string{"stock"}},
	{VendorBills, []string{"vendor bill", "supplier invoice", "supplier payment", "purchase invoice"}, nil},
	{Accounting, []string{"invoic", "accounting", "customer payment", "customer bill"}, []string{"payment", "payments"}},
	{Ecommerce, []string{"ecommerce", "e-commerce", "online product", "web shop", "online store"}, nil},
	{Website, []string{"website", "web page", "web content"}, []string{"page", "pages"}},
}

var greetingPhrases = []string{
	"how are you", "good morning", "good afternoon", "good evening", "thank you",
}

var greetingWords = []string{
	"hello", "hi", "hey", "thanks", "greetings", "bye", "goodbye",
}

// Route maps user text to an ERP module domain. It is a total function: no
// side effects, no failures, unmatched input yields Unknown.
func Route(text string) Module {
	q := strings.ToLower(text)
	words := tokenize(q)

	for _, r := range rules {
		for _, p := range r.phrases {
			if strings.Contains(q, p) {
				return r.module
			}
		}
		for _, w := range r.words {
			if words[w] {
				return r.module
			}
		}
	}
	return Unknown
}

// IsConversational reports whether the text is small talk (greetings, thanks)
// rather than a data question. Conversational turns never trigger an ERP
// fetch; they only select the conversational prompt shape.
func IsConversational(text string) bool {
	q := strings.ToLower(text)
	for _, p := range greetingPhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	words := tokenize(q)
	for _, w := range greetingWords {
		if words[w] {
			return true
		}
	}
	return false
}

// installTargets maps spoken module names to Odoo's technical module names.
var installTargets = []struct {
	keywords []string
	module   string
}{
	{[]string{"inventory", "stock"}, "stock"},
	{[]string{"manufacturing", "mrp"}, "mrp"},
	{[]string{"crm"}, "crm"},
	{[]string{"sales", "sale"}, "sale_management"},
	{[]string{"purchase"}, "purchase"},
	{[]string{"accounting", "invoicing"}, "account"},
	{[]string{"website"}, "website"},
	{[]string{"hr", "employees"}, "hr"},
}

// InstallIntent detects "install <module>" style requests and returns the
// technical module name to install.
func InstallIntent(text string) (string, bool) {
	q := strings.ToLower(text)
	if !strings.Contains(q, "install") {
		return "", false
	}
	words := tokenize(q)
	for _, t := range installTargets {
		for _, kw := range t.keywords {
			if words[kw] || strings.Contains(q, kw+" module") {
				return t.module, true
			}
		}
	}
	return "", false
}

func tokenize(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[f] = true
	}
	return words
}
