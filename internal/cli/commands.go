package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Shamlan321/OdooSense/internal/assistant"
	"github.com/Shamlan321/OdooSense/internal/config"
	"github.com/Shamlan321/OdooSense/internal/conversation"
	"github.com/Shamlan321/OdooSense/internal/debug"
	"github.com/Shamlan321/OdooSense/internal/llm"
	"github.com/Shamlan321/OdooSense/internal/logger"
	"github.com/Shamlan321/OdooSense/internal/odoo"
)

const version = "1.0.0"

// app carries the loaded configuration into the command closures.
type app struct {
	cfg *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "odoosense",
		Short: "OdooSense - AI assistant for Odoo ERP",
		Long: `OdooSense answers natural language questions about an Odoo database.
Each query is routed to the matching ERP module, the records are fetched over
JSON-RPC and Gemini summarizes them in plain language.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
				cfg.Debug = true
			}
			if err := logger.Init(cfg); err != nil {
				return err
			}
			a.cfg = cfg
			return debug.Start(cmd.Context(), cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start the interactive session
			return a.runInteractive(cmd.Context())
		},
	}

	rootCmd.AddCommand(a.newAskCmd())
	rootCmd.AddCommand(a.newInspectCmd())
	rootCmd.AddCommand(a.newAccessCmd())
	rootCmd.AddCommand(a.newModulesCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// ensurePassword prompts for the Odoo password when the environment did not
// provide one.
func (a *app) ensurePassword() error {
	if a.cfg.OdooPassword != "" {
		return nil
	}
	password, err := PromptForPassword(a.cfg.OdooUsername)
	if err != nil {
		return err
	}
	a.cfg.OdooPassword = password
	return nil
}

func (a *app) newGateway() (*odoo.Gateway, error) {
	if err := a.ensurePassword(); err != nil {
		return nil, err
	}
	client, err := odoo.NewClient(a.cfg)
	if err != nil {
		return nil, err
	}
	return odoo.NewGateway(client), nil
}

func (a *app) newInspector() (*odoo.Inspector, error) {
	if err := a.ensurePassword(); err != nil {
		return nil, err
	}
	client, err := odoo.NewClient(a.cfg)
	if err != nil {
		return nil, err
	}
	return odoo.NewInspector(client, a.cfg.OdooURL, a.cfg.OdooDB), nil
}

func (a *app) newAssistant(ctx context.Context) (*assistant.Assistant, *conversation.Store, error) {
	if err := a.cfg.RequireGeminiKey(); err != nil {
		return nil, nil, err
	}
	gateway, err := a.newGateway()
	if err != nil {
		return nil, nil, err
	}
	chatModel, err := llm.NewGeminiModel(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	store := conversation.NewStore(a.cfg.HistorySize, a.cfg.DefaultLanguage)
	return assistant.New(gateway, llm.NewOrchestrator(chatModel), store, a.cfg), store, nil
}

// newAskCmd creates the one-shot question command
func (a *app) newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and exit",
		Long: `Ask one question about the Odoo database without entering the interactive
session. Example: odoosense ask "show my open sales orders"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asst, _, err := a.newAssistant(cmd.Context())
			if err != nil {
				return err
			}
			reply, err := asst.Handle(cmd.Context(), "cli", strings.Join(args, " "))
			if err != nil {
				return friendlyModelError(err)
			}
			DisplayReply(reply)
			return nil
		},
	}
}

// newInspectCmd creates the server inspection command
func (a *app) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the Odoo server and save a JSON report",
		Long: `Collect the server version, installed modules, model catalog, field
metadata and access rules, then write everything to a timestamped JSON report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, err := a.newInspector()
			if err != nil {
				return err
			}

			DisplayInfo("Inspecting Odoo server at " + a.cfg.OdooURL)
			report, err := inspector.Inspect(cmd.Context())
			if err != nil {
				return fmt.Errorf("inspection failed: %w", err)
			}

			fmt.Printf("Server version:     %s\n", report.Server.ServerVersion)
			fmt.Printf("Database:           %s (uid %d)\n", report.Database, report.UID)
			fmt.Printf("Installed modules:  %d\n", len(report.Modules))
			fmt.Printf("Known models:       %d\n", len(report.Models))
			fmt.Printf("Access rules:       %d\n", len(report.Access))

			path, err := odoo.SaveReport(report, "odoo_inspection_report")
			if err != nil {
				return err
			}
			DisplaySuccess("Detailed information has been saved to " + path)
			return nil
		},
	}
}

// newAccessCmd creates the per-module access check command
func (a *app) newAccessCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Probe access rights for every supported module",
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, err := a.newInspector()
			if err != nil {
				return err
			}
			return runAccessCheck(cmd.Context(), inspector, save)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Write the results to a JSON report without asking")
	return cmd
}

func runAccessCheck(ctx context.Context, inspector *odoo.Inspector, save bool) error {
	DisplayInfo("Starting module access tests...")
	results := inspector.CheckAccess(ctx)

	accessible := 0
	for _, res := range results {
		switch res.Status {
		case odoo.AccessOK:
			accessible++
			DisplaySuccess(fmt.Sprintf("%s (%s): %d records", res.Module.Label(), res.Model, res.Count))
			for _, name := range res.Sample {
				fmt.Println(statusStyle.Render("    " + name))
			}
		case odoo.AccessDenied:
			DisplayErrorMessage(fmt.Sprintf("%s (%s): access denied", res.Module.Label(), res.Model))
		default:
			DisplayWarning(fmt.Sprintf("%s (%s): %s", res.Module.Label(), res.Model, res.Error))
		}
	}

	fmt.Println()
	fmt.Printf("%d of %d modules accessible\n", accessible, len(results))

	if save {
		path, err := odoo.SaveReport(results, "module_access_report")
		if err != nil {
			return err
		}
		DisplaySuccess("Detailed results have been saved to " + path)
	}
	return nil
}

// newModulesCmd creates the installed modules listing command
func (a *app) newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List installed Odoo modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, err := a.newInspector()
			if err != nil {
				return err
			}
			modules, err := inspector.InstalledModules(cmd.Context())
			if err != nil {
				return err
			}

			DisplayTitle(fmt.Sprintf("📦 %d installed modules", len(modules)))
			for _, m := range modules {
				line := fmt.Sprintf("%-24s %-12s %s", m.Name, m.LatestVersion, m.ShortDesc)
				fmt.Println(strings.TrimRight(line, " "))
			}
			return nil
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("OdooSense v%s\n", version)
			fmt.Println("AI assistant for Odoo ERP")
			fmt.Println("Built with Go, eino and the Odoo JSON-RPC API")
		},
	}
}

// newConfigCmd creates the config command
func (a *app) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Show and validate the environment-driven configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(a.cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and test the Odoo connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(cmd.Context())
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current OdooSense Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Odoo URL:             %s\n", cfg.OdooURL)
	fmt.Printf("Database:             %s\n", cfg.OdooDB)
	fmt.Printf("Username:             %s\n", cfg.OdooUsername)
	if cfg.OdooPassword != "" {
		fmt.Println("Password:             ✅ Configured")
	} else {
		fmt.Println("Password:             ❌ Not configured (will prompt)")
	}
	fmt.Println()
	fmt.Printf("Gemini Model:         %s\n", cfg.GeminiModel)
	if cfg.GeminiAPIKey != "" {
		fmt.Println("Gemini API Key:       ✅ Configured")
	} else {
		fmt.Println("Gemini API Key:       ❌ Not configured")
	}
	fmt.Println()
	fmt.Printf("Log Level:            %s\n", cfg.LogLevel)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Dev Mode:             %t\n", cfg.DevMode)
	if cfg.DevMode {
		fmt.Printf("Debug URL:            %s\n", debug.URL())
	}
	fmt.Printf("Full Error Trace:     %t\n", cfg.ShowFullErrorTrace)
	fmt.Println()
	fmt.Printf("History Size:         %d turns\n", cfg.HistorySize)
	fmt.Printf("Default Language:     %s\n", cfg.DefaultLanguage)
	fmt.Printf("Connection Timeout:   %s\n", cfg.ConnectionTimeout)
	fmt.Printf("SSL Verify:           %t\n", cfg.SSLVerify)
	if cfg.SSLCertPath != "" {
		fmt.Printf("SSL Cert Path:        %s\n", cfg.SSLCertPath)
	}
}

// validateConfig validates the configuration and tests both backends
func (a *app) validateConfig(ctx context.Context) error {
	fmt.Println("🔍 Validating OdooSense Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("⚙️  Checking configuration values... ")
	if err := a.cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	warnings := []string{}
	fmt.Print("🔑 Checking API keys... ")
	if a.cfg.GeminiAPIKey == "" {
		warnings = append(warnings, "GEMINI_API_KEY not configured, the assistant cannot answer")
	}
	if len(warnings) > 0 {
		fmt.Println("⚠️")
		for _, warning := range warnings {
			fmt.Printf("  ⚠️  %s\n", warning)
		}
	} else {
		fmt.Println("✅")
	}

	fmt.Print("🔌 Testing Odoo connection... ")
	if err := a.ensurePassword(); err != nil {
		fmt.Println("❌")
		return err
	}
	client, err := odoo.NewClient(a.cfg)
	if err != nil {
		fmt.Println("❌")
		return err
	}
	serverVersion, err := client.Version(ctx)
	if err != nil {
		fmt.Println("❌")
		return fmt.Errorf("server unreachable: %w", err)
	}
	uid, err := client.Authenticate(ctx)
	if err != nil {
		fmt.Println("❌")
		return fmt.Errorf("authentication failed: %w", err)
	}
	fmt.Println("✅")
	fmt.Printf("  Server %s, authenticated as uid %d\n", serverVersion.ServerVersion, uid)

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("✅ Configuration validation completed successfully!")
	} else {
		fmt.Printf("⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
	}
	return nil
}

func friendlyModelError(err error) error {
	if llm.IsRateLimited(err) {
		return fmt.Errorf("the model is rate limited, wait a moment and retry: %w", err)
	}
	return err
}
