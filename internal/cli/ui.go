package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Shamlan321/OdooSense/internal/assistant"
	"github.com/Shamlan321/OdooSense/internal/router"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginBottom(1)

	moduleBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#F9FAFB")).
				Background(lipgloss.Color("#3B82F6")).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)

	answerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 2).
			Width(80)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#3B82F6"))

	recordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner() {
	banner := `
 ██████╗ ██████╗  ██████╗  ██████╗ ███████╗███████╗███╗   ██╗███████╗███████╗
██╔═══██╗██╔══██╗██╔═══██╗██╔═══██╗██╔════╝██╔════╝████╗  ██║██╔════╝██╔════╝
██║   ██║██║  ██║██║   ██║██║   ██║███████╗█████╗  ██╔██╗ ██║███████╗█████╗
██║   ██║██║  ██║██║   ██║██║   ██║╚════██║██╔══╝  ██║╚██╗██║╚════██║██╔══╝
╚██████╔╝██████╔╝╚██████╔╝╚██████╔╝███████║███████╗██║ ╚████║███████║███████╗
 ╚═════╝ ╚═════╝  ╚═════╝  ╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═══╝╚══════╝╚══════╝

                🤖 AI Assistant for your Odoo ERP 🤖
`

	welcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Align(lipgloss.Center).
		Width(80).
		MarginBottom(1)

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true).
		Align(lipgloss.Center).
		Width(80).
		MarginBottom(1)

	fmt.Print(welcomeStyle.Render(banner))
	fmt.Print(taglineStyle.Render("Ask about CRM, sales, purchases, inventory, manufacturing, invoices and more"))
	fmt.Println()
}

// ClearScreen clears the terminal screen
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// DisplayReply prints one assistant answer with its module badge and status.
func DisplayReply(reply *assistant.Reply) {
	fmt.Println()
	if reply.Module != router.Unknown {
		fmt.Println(moduleBadgeStyle.Render(reply.Module.Label()))
	}
	if reply.Status != "" {
		fmt.Println(statusStyle.Render(reply.Status))
	}
	fmt.Println(answerStyle.Render(reply.Answer))
	fmt.Println()
}

// DisplayError shows an error message
func DisplayError(err error) {
	errorMsg := fmt.Sprintf("❌ Error: %s", err.Error())
	fmt.Println(errorStyle.Render(errorMsg))
}

// DisplayErrorMessage shows a plain error string
func DisplayErrorMessage(message string) {
	fmt.Println(errorStyle.Render("❌ " + message))
}

// DisplayInfo shows an info message
func DisplayInfo(message string) {
	infoMsg := fmt.Sprintf("ℹ️  %s", message)
	fmt.Println(infoStyle.Render(infoMsg))
}

// DisplaySuccess shows a success message
func DisplaySuccess(message string) {
	successMsg := fmt.Sprintf("✅ %s", message)
	fmt.Println(successStyle.Render(successMsg))
}

// DisplayWarning shows a warning message
func DisplayWarning(message string) {
	fmt.Println(warnStyle.Render("⚠️  " + message))
}

// DisplayTitle shows a highlighted section title
func DisplayTitle(title string) {
	fmt.Println(titleStyle.Render(title))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func separator() string {
	return strings.Repeat("─", 64)
}
