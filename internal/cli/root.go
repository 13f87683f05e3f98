// Package cli provides the command-line interface for the fund notifier.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vanguard-notifier/internal/config"
	"vanguard-notifier/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-01-01"
)

// dotEnvFile is loaded from the working directory before configuration.
const dotEnvFile = ".env"

// App holds the application dependencies.
type App struct {
	ConfigDir string
	Config    *config.Config
	Logger    zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "vgnotify",
		Short: "Vanguard fund price notifier",
		Long: `vgnotify renders fund price pages, extracts the latest price or
distribution figures, compares them with the previous row and pushes a
one-line alert to ntfy (and optionally a detailed message to a webhook).

Funds are read from a YAML file (default: funds_config.yml):

  funds:
    - name: "My Fund"
      url: "https://..."

Each run is stateless; "previous" is the second row of the same page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/vanguard-notifier)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newFundCmd(app))
	rootCmd.AddCommand(newExtractCmd(app))
	rootCmd.AddCommand(newNotifyCmd(app))
	addHelpCommands(rootCmd)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (app *App) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("config")
	if dir == "" {
		dir = config.DefaultConfigDir()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	app.ConfigDir = dir
	app.Config = cfg

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	logCfg.File = cfg.Logging.File
	logCfg.FilePath = cfg.Logging.FilePath
	logCfg.Out = cmd.ErrOrStderr()

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
	}
	app.Logger = logging.NewLoggerWithConfig(logCfg)
	app.Logger.Debug().Str("config_dir", dir).Msg("Configuration loaded")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("vgnotify v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				redacted := *app.Config
				redacted.Notifications.Webhook.URL = logging.RedactURL(redacted.Notifications.Webhook.URL)
				return output.JSON(redacted)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.ConfigDir})
			} else {
				output.Println(app.ConfigDir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			funds, err := config.LoadFunds(app.Config.Run.FundsFile)
			if err != nil {
				output.Warning("Funds file: %v", err)
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"valid": true, "funds": len(funds)})
			}
			output.Success("✓ Configuration is valid (%d fund(s) configured)", len(funds))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init-funds",
		Short: "Write an example funds file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := app.Config.Run.FundsFile
			created, err := config.WriteFundsTemplate(path)
			if err != nil {
				return err
			}
			if created {
				output.Success("Created %s", path)
			} else {
				output.Info("%s already exists", path)
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Renderer")
	output.Printf("  Engine:          %s\n", cfg.Renderer.Engine)
	output.Printf("  Wait timeout:    %s\n", cfg.Renderer.WaitTimeout)
	output.Printf("  Settle delay:    %s (+%s after panel)\n", cfg.Renderer.SettleDelay, cfg.Renderer.PanelSettleDelay)
	output.Printf("  Min content:     %d chars\n", cfg.Renderer.MinContentLength)
	output.Println()

	output.Bold("Run")
	output.Printf("  Funds file:      %s\n", cfg.Run.FundsFile)
	output.Printf("  Pacing:          %s\n", cfg.Run.Pacing)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Level:           %s\n", cfg.Notifications.Level)
	output.Printf("  ntfy:            %v %s\n", cfg.Notifications.Ntfy.Enabled, cfg.Notifications.Ntfy.URL)
	output.Printf("  ntfy priority:   %s\n", cfg.Notifications.Ntfy.Priority)
	output.Printf("  ntfy tags:       %s\n", cfg.Notifications.Ntfy.Tags)
	output.Printf("  Webhook:         %v %s\n", cfg.Notifications.Webhook.Enabled, logging.RedactURL(cfg.Notifications.Webhook.URL))
	output.Printf("  Terminal:        %v\n", cfg.Notifications.Terminal.Enabled)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v %s\n", cfg.Logging.File, cfg.Logging.FilePath)

	return nil
}
