package cli

import (
	"github.com/spf13/cobra"
)

// addHelpCommands adds the examples and quickstart guides.
func addHelpCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newExamplesCmd())
	rootCmd.AddCommand(newQuickstartCmd())
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Scheduled Check",
					commands: []string{
						"vgnotify run                          # Check every fund in funds_config.yml",
						"vgnotify run --funds my_funds.yml     # Use another funds file",
						"vgnotify run --engine http            # Skip the browser for static pages",
						"vgnotify run --json                   # Machine-readable summary",
					},
				},
				{
					title: "Single Fund",
					commands: []string{
						"vgnotify fund https://... --name \"Growth\"  # Check one page",
					},
				},
				{
					title: "Troubleshooting",
					commands: []string{
						"vgnotify extract saved_page.html      # Dry-run extraction on saved HTML",
						"vgnotify extract page.html --rows 0   # Preview every table row",
						"vgnotify notify test                  # Send a test notification",
						"vgnotify config validate              # Check config and funds file",
						"vgnotify run --debug                  # Log every table and state change",
					},
				},
				{
					title: "Cron",
					commands: []string{
						"0 18 * * 1-5 vgnotify run >> ~/vgnotify.out 2>&1",
					},
				},
			}

			for _, ex := range examples {
				output.Printf("%s\n", output.Cyan(ex.title))
				for _, c := range ex.commands {
					output.Printf("  %s\n", c)
				}
				output.Println()
			}
			return nil
		},
	}
}

func newQuickstartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "New user guide",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("vgnotify - Quick Start Guide")
			output.Println()

			steps := []struct {
				step  int
				title string
				desc  string
				cmd   string
			}{
				{1, "Create the configuration", "The first run writes config.toml with defaults.", "vgnotify config path"},
				{2, "Point at your ntfy topic", "Set notifications.ntfy.url or NTFY_URL in .env.", "echo NTFY_URL=https://ntfy.sh/my-topic >> .env"},
				{3, "List your funds", "Write an example funds file and edit names and URLs.", "vgnotify config init-funds"},
				{4, "Test delivery", "Send a test message to every enabled channel.", "vgnotify notify test"},
				{5, "Run", "Check every fund and send one alert each.", "vgnotify run"},
			}

			for _, s := range steps {
				output.Printf("%s Step %d: %s\n", output.Cyan("→"), s.step, output.BoldText(s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", output.DimText(s.cmd))
			}

			output.Bold("Important Notes")
			output.Println()
			output.Printf("  %s The chrome engine needs Chrome or Chromium installed\n", output.Yellow("⚠"))
			output.Printf("  %s Each run compares the two newest rows on the page; nothing is stored\n", output.Yellow("⚠"))
			output.Printf("  %s Failed funds send an error notification and are not retried\n", output.Yellow("⚠"))
			return nil
		},
	}
}
