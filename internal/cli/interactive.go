package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Shamlan321/OdooSense/internal/assistant"
	"github.com/Shamlan321/OdooSense/internal/config"
	"github.com/Shamlan321/OdooSense/internal/conversation"
	"github.com/Shamlan321/OdooSense/internal/llm"
)

const interactiveSession = "interactive"

// InteractiveSession is the REPL wrapping the assistant.
type InteractiveSession struct {
	cfg    *config.Config
	app    *app
	asst   *assistant.Assistant
	store  *conversation.Store
	reader *bufio.Reader
	last   *assistant.Reply
}

func (a *app) runInteractive(ctx context.Context) error {
	asst, store, err := a.newAssistant(ctx)
	if err != nil {
		return err
	}
	session := &InteractiveSession{
		cfg:    a.cfg,
		app:    a,
		asst:   asst,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
	}
	return session.Start(ctx)
}

// Start begins the interactive session
func (s *InteractiveSession) Start(ctx context.Context) error {
	s.showWelcome()

	for {
		fmt.Print("💬 OdooSense> ")

		input, err := s.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\n👋 Thank you for using OdooSense!")
				return nil
			}
			fmt.Printf("❌ Error reading input: %v\n", err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		command := strings.ToLower(strings.Fields(input)[0])
		switch command {
		case "exit", "quit", "q":
			fmt.Println("👋 Thank you for using OdooSense!")
			return nil

		case "help", "h", "?":
			s.showHelp()

		case "clear", "cls":
			ClearScreen()
			s.showWelcome()

		case "history", "hist":
			s.showHistory()

		case "records":
			s.showRecords()

		case "reset":
			s.store.Clear(interactiveSession)
			s.last = nil
			DisplayInfo("Conversation history cleared.")

		case "modules":
			s.listModules(ctx)

		case "access":
			s.checkAccess(ctx)

		default:
			s.handleQuery(ctx, input)
		}

		fmt.Println()
	}
}

// showWelcome displays the welcome screen
func (s *InteractiveSession) showWelcome() {
	DisplayWelcomeBanner()
	fmt.Println("You can ask about:")
	fmt.Println("   • Manufacturing Orders (production, mo)")
	fmt.Println("   • Sales Orders (sales, quotation)")
	fmt.Println("   • Purchase Orders (purchase, po)")
	fmt.Println("   • Inventory Status (stock, inventory)")
	fmt.Println("   • Customer Invoices (invoice, payment)")
	fmt.Println("   • Vendor Bills (bill, supplier invoice)")
	fmt.Println("   • CRM Leads, Employees, Website Pages and more")
	fmt.Println()
	fmt.Println("💡 Commands:")
	fmt.Println("   help      - Show detailed help")
	fmt.Println("   history   - Show this conversation")
	fmt.Println("   records   - Show the records behind the last answer")
	fmt.Println("   reset     - Clear the conversation history")
	fmt.Println("   exit      - Exit OdooSense")
	fmt.Println()
}

// showHelp displays detailed help information
func (s *InteractiveSession) showHelp() {
	fmt.Println("📚 OdooSense Help")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("🔍 ASKING QUESTIONS:")
	fmt.Println("  Type any question about your Odoo data. The assistant picks the")
	fmt.Println("  matching module from keywords in the question.")
	fmt.Println("    Example: show my open sales orders")
	fmt.Println("    Example: how many manufacturing orders are running?")
	fmt.Println("    Example: install the inventory module")
	fmt.Println()
	fmt.Println("📦 SUPPORTED MODULES:")
	fmt.Println("  CRM, Sales, Purchase, Inventory, Stock Moves, Manufacturing,")
	fmt.Println("  Accounting, Vendor Bills, Employees, Website, eCommerce")
	fmt.Println()
	fmt.Println("🔧 SESSION COMMANDS:")
	fmt.Println("  history                    - Show past questions and answers")
	fmt.Println("  records                    - Show the raw records of the last answer")
	fmt.Println("  reset                      - Forget the conversation so far")
	fmt.Println("  modules                    - List installed Odoo modules")
	fmt.Println("  access                     - Probe per-module access rights")
	fmt.Println("  clear                      - Clear screen")
	fmt.Println("  exit                       - Exit OdooSense")
	fmt.Println()
	fmt.Println("💡 Tips:")
	fmt.Println("  • The assistant remembers the last few turns, follow-ups work")
	fmt.Println("  • Set SHOW_FULL_ERROR_TRACE=true to see full error details")
	fmt.Println("  • Set DEBUG_MODE=true to print fetched records with each answer")
}

func (s *InteractiveSession) handleQuery(ctx context.Context, query string) {
	reply, err := s.asst.Handle(ctx, interactiveSession, query)
	if err != nil {
		s.displayAssistantError(err)
		return
	}
	s.last = reply

	DisplayReply(reply)
	if s.cfg.Debug && reply.Dataset != nil {
		fmt.Println(FormatDataset(reply.Dataset))
	}
}

func (s *InteractiveSession) displayAssistantError(err error) {
	switch {
	case llm.IsRateLimited(err):
		DisplayErrorMessage("The model is rate limited. Wait a moment and try again.")
	case s.cfg.ShowFullErrorTrace:
		DisplayError(err)
	default:
		DisplayErrorMessage("The assistant could not answer. Set SHOW_FULL_ERROR_TRACE=true for details.")
	}
}

// showHistory displays the conversation so far
func (s *InteractiveSession) showHistory() {
	turns := s.store.Get(interactiveSession)
	if len(turns) == 0 {
		DisplayInfo("No conversation yet.")
		return
	}

	fmt.Println("📜 Conversation History")
	fmt.Println(separator())
	for _, turn := range turns {
		fmt.Printf("you:       %s\n", turn.Query)
		if turn.Status != "" {
			fmt.Println(statusStyle.Render("           " + turn.Status))
		}
		fmt.Printf("assistant: %s\n", truncateString(turn.Response, 200))
		fmt.Println(separator())
	}
}

// showRecords displays the records behind the last data answer
func (s *InteractiveSession) showRecords() {
	if s.last == nil || s.last.Dataset == nil {
		DisplayInfo("The last answer used no ERP records.")
		return
	}
	fmt.Println(FormatDataset(s.last.Dataset))
}

func (s *InteractiveSession) listModules(ctx context.Context) {
	inspector, err := s.app.newInspector()
	if err != nil {
		DisplayError(err)
		return
	}
	modules, err := inspector.InstalledModules(ctx)
	if err != nil {
		DisplayError(err)
		return
	}
	DisplayTitle(fmt.Sprintf("📦 %d installed modules", len(modules)))
	for _, m := range modules {
		fmt.Printf("  %-24s %s\n", m.Name, m.ShortDesc)
	}
}

func (s *InteractiveSession) checkAccess(ctx context.Context) {
	inspector, err := s.app.newInspector()
	if err != nil {
		DisplayError(err)
		return
	}
	save, err := PromptForSaveReport()
	if err != nil {
		save = false
	}
	if err := runAccessCheck(ctx, inspector, save); err != nil {
		DisplayError(err)
	}
}
