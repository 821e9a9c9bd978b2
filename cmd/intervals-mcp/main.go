package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/intervals-mcp/internal/activity"
	"github.com/kokistudios/intervals-mcp/internal/claude"
	"github.com/kokistudios/intervals-mcp/internal/config"
	"github.com/kokistudios/intervals-mcp/internal/intervals"
	intervalsmcp "github.com/kokistudios/intervals-mcp/internal/mcp"
	"github.com/kokistudios/intervals-mcp/internal/metrics"
	"github.com/kokistudios/intervals-mcp/internal/record"
	"github.com/kokistudios/intervals-mcp/internal/tools"
	"github.com/kokistudios/intervals-mcp/internal/ui"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "intervals-mcp",
		Short: "Intervals.icu MCP server",
		Long:  "Expose Intervals.icu activities, calendar, wellness and performance curves to MCP clients over stdio.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Init(noColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Logo()
			return cmd.Help()
		},
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "query", Title: "Query Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	for _, c := range []*cobra.Command{serveCmd(), installCmd(), doctorCmd()} {
		c.GroupID = "core"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{activitiesCmd(), athleteCmd(), dateCmd()} {
		c.GroupID = "query"
		rootCmd.AddCommand(c)
	}
	configC := configCmd()
	configC.GroupID = "config"
	rootCmd.AddCommand(configC)
	rootCmd.AddCommand(completionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Home())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ui.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cfg *config.Config) (*intervals.Client, error) {
	return intervals.NewClient(intervals.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.APIKey,
		Logger:  ui.Logger,
	})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long:  "Start the Model Context Protocol server on stdin/stdout. Configure your MCP client to launch this command. Logs go to stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Metrics.Address != "" {
				go func() {
					if err := metrics.Serve(ctx, cfg.Metrics.Address, ui.Logger); err != nil {
						ui.Logger.Error("metrics listener stopped", "err", err)
					}
				}()
			}

			ts := tools.New(client, cfg.Athlete.ID, ui.Logger)
			server := intervalsmcp.NewServer(ts, ui.Logger, version)
			ui.Logger.Info("starting intervals-mcp", "version", buildVersion(), "athlete", cfg.Athlete.ID, "base_url", cfg.API.BaseURL)
			return server.Run(ctx)
		},
	}
}

func activitiesCmd() *cobra.Command {
	var args tools.ActivitiesArgs
	var table bool

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List recent named activities",
		Long:  "Fetch activities the same way the get_activities tool does, including the backfill from earlier dates when too few activities are named.",
		Example: `  intervals-mcp activities
  intervals-mcp activities --start 2024-01-01 --end 2024-01-31 --limit 20
  intervals-mcp activities --include-unnamed --table`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			if table {
				return printActivityTable(ctx, client, tools.New(client, cfg.Athlete.ID, ui.Logger), args)
			}

			spin := ui.NewSpinner("Fetching activities...")
			reply := tools.New(client, cfg.Athlete.ID, ui.Logger).Activities(ctx, args)
			spin.Stop()
			fmt.Println(reply.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&args.AthleteID, "athlete", "", "Athlete ID (defaults to ATHLETE_ID)")
	cmd.Flags().StringVar(&args.StartDate, "start", "", "Start date YYYY-MM-DD (default 30 days ago)")
	cmd.Flags().StringVar(&args.EndDate, "end", "", "End date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&args.Limit, "limit", tools.DefaultActivityLimit, "Maximum number of activities")
	cmd.Flags().BoolVar(&args.IncludeUnnamed, "include-unnamed", false, "Include unnamed activities")
	cmd.Flags().BoolVar(&table, "table", false, "Print a compact table instead of full summaries")
	return cmd
}

func printActivityTable(ctx context.Context, sender intervals.Sender, ts *tools.Toolset, args tools.ActivitiesArgs) error {
	req, err := ts.ActivityRequest(args)
	if err != nil {
		return err
	}

	spin := ui.NewSpinner("Fetching activities...")
	list, f := activity.NewAggregator(sender, ui.Logger).Aggregate(ctx, req)
	spin.Stop()
	if f != nil {
		return fmt.Errorf("fetching activities: %w", f)
	}
	if len(list) == 0 {
		ui.EmptyState("No activities found.")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, a := range list {
		start, _ := a.First("startTime", "start_date_local", "start_date")
		rows = append(rows, []string{
			record.Text(a["id"]),
			record.Text(start),
			record.Text(a["name"]),
			record.Text(a["type"]),
			record.Text(a["distance"]),
		})
	}
	ui.Table([]string{"ID", "START", "NAME", "TYPE", "DISTANCE (m)"}, rows)
	return nil
}

func athleteCmd() *cobra.Command {
	var args tools.AthleteProfileArgs
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "athlete",
		Short: "Show the athlete profile and training zones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			if !asJSON {
				args.Format = "markdown"
			}
			spin := ui.NewSpinner("Fetching athlete profile...")
			reply := tools.New(client, cfg.Athlete.ID, ui.Logger).Athlete(cmd.Context(), args)
			spin.Stop()

			if strings.HasPrefix(reply.Text, "Error") {
				return fmt.Errorf("%s", reply.Text)
			}
			if asJSON {
				fmt.Println(reply.String())
				return nil
			}
			ui.RenderMarkdown(reply.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&args.AthleteID, "athlete", "", "Athlete ID (defaults to ATHLETE_ID)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw profile as JSON")
	return cmd
}

func dateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date [YYYY-MM-DD]",
		Short: "Describe today, or a date relative to today",
		Example: `  intervals-mcp date
  intervals-mcp date 2025-06-14`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := tools.New(nil, "", ui.Logger)
			reply := ts.CurrentDateInfo()
			if len(args) == 1 {
				reply = ts.CalculateDateInfo(tools.DateArgs{Date: args[0]})
			}
			fmt.Println(reply.String())
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit intervals-mcp configuration",
	}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	cmd.AddCommand(configPathCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Create a default config file",
		Long:    "Create INTERVALS_HOME (~/.intervals-mcp by default) with a default config.yaml. The API key is never stored there; put it in the environment or a .env file.",
		Example: "  intervals-mcp config init\n  intervals-mcp config init --force",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := config.Home()
			if _, err := os.Stat(config.Path(home)); err == nil && !force {
				ok, err := ui.Confirm(fmt.Sprintf("%s already exists. Overwrite it?", config.Path(home)))
				if err != nil {
					return err
				}
				if !ok {
					ui.EmptyState("Left existing config untouched.")
					return nil
				}
				force = true
			}
			if err := config.Init(home, force); err != nil {
				return err
			}
			ui.Success("Config initialized")
			ui.Detail("Home:", home)
			ui.Detail("File:", config.Path(home))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config without asking")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Home())
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Print(string(data))
			ui.SectionHeader("Credentials")
			ui.KeyValue("API key:", cfg.MaskedKey())
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value in config.yaml. Valid keys: api.base_url, athlete.id, metrics.address, log.level. Environment variables still take precedence.",
		Example: `  intervals-mcp config set athlete.id i123456
  intervals-mcp config set metrics.address localhost:9464
  intervals-mcp config set log.level debug`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// File only, so values from the environment are not persisted.
			cfg, err := config.LoadFile(config.Home())
			if err != nil {
				return err
			}
			if err := cfg.SetConfigValue(args[0], args[1]); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Set %s = %s", ui.Bold(args[0]), ui.Green(args[1])))
			return nil
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(config.Path(config.Home()))
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and API connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.CommandBanner("DOCTOR", "health check")

			home := config.Home()
			ui.Info("Checking configuration " + ui.Dim(config.Path(home)))
			cfg, err := config.Load(home)
			if err != nil {
				return err
			}
			issues := config.CheckHealth(cfg)

			if cfg.Validate() == nil {
				ui.Info("Checking API " + ui.Dim(cfg.API.BaseURL))
				client, err := newClient(cfg)
				if err != nil {
					return err
				}
				defer client.Close()

				spin := ui.NewSpinner("Contacting Intervals.icu...")
				res := client.Send(cmd.Context(), intervals.RequestSpec{Path: "/athlete/" + cfg.Athlete.ID})
				spin.Stop()
				if res.OK() {
					name := "unknown"
					if obj, ok := res.Payload.Object(); ok {
						name = record.Text(obj["name"])
					}
					ui.Success(fmt.Sprintf("API reachable, authenticated as %s", name))
				} else {
					issues = append(issues, config.Issue{Severity: "error", Message: fmt.Sprintf("API check failed: %v", res.Failure)})
				}
			}

			ui.Info("Checking Claude Code")
			if err := claude.NewRegistrar().Available(); err != nil {
				issues = append(issues, config.Issue{Severity: "warning", Message: fmt.Sprintf("Claude Code: %v", err)})
			}

			if len(issues) == 0 {
				ui.Success("Everything looks good")
				os.Exit(0)
			}

			errCount, warnCount := 0, 0
			for _, issue := range issues {
				if issue.Severity == "error" {
					ui.Error(fmt.Sprintf("[ERR]  %s", issue.Message))
					errCount++
				} else {
					ui.Warning(fmt.Sprintf("[WARN] %s", issue.Message))
					warnCount++
				}
			}
			ui.Info(fmt.Sprintf("%s error(s), %s warning(s)", ui.Red(strconv.Itoa(errCount)), ui.Yellow(strconv.Itoa(warnCount))))

			if errCount > 0 {
				os.Exit(2)
			}
			os.Exit(1)
			return nil
		},
	}
}

func installCmd() *cobra.Command {
	var name string
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the server with Claude Code",
		Long:  "Add this binary to Claude Code's user-scoped MCP servers, running 'serve'. Credentials are read from the environment or a .env file at launch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			binary, err := os.Executable()
			if err != nil {
				return fmt.Errorf("cannot locate executable: %w", err)
			}
			if resolved, err := filepath.EvalSymlinks(binary); err == nil {
				binary = resolved
			}

			reg := claude.NewRegistrar()
			if err := reg.Available(); err != nil {
				return err
			}
			changed, err := reg.Register(name, binary, []string{"serve"}, force)
			if err != nil {
				return err
			}
			if !changed {
				ui.EmptyState(fmt.Sprintf("Claude Code already uses %s for %s.", binary, name))
				return nil
			}
			ui.Success(fmt.Sprintf("Configured Claude Code to use the Intervals.icu MCP server (%s)", ui.Bold(name)))
			ui.Detail("Command:", binary+" serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "intervals-icu", "Server name in Claude Code")
	cmd.Flags().BoolVar(&force, "force", false, "Re-register even if already configured")
	return cmd
}

func completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate shell completion scripts",
		Long:      "Generate shell completion scripts for bash, zsh, or fish. Output the script to stdout for sourcing in your shell profile.",
		Example:   "  intervals-mcp completion bash > ~/.bashrc.d/intervals-mcp\n  intervals-mcp completion zsh > ~/.zfunc/_intervals-mcp",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", args[0])
			}
		},
	}
}
