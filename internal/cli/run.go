package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vanguard-notifier/internal/config"
	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/models"
	"vanguard-notifier/internal/notify"
	"vanguard-notifier/internal/render"
	"vanguard-notifier/internal/runner"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every configured fund and send alerts",
		Long: `Render each fund page from the funds file in order, extract the latest
figures and send one notification per fund. Failures are reported as error
notifications; the command exits 0 once all funds have been processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			path, _ := cmd.Flags().GetString("funds")
			if path == "" {
				path = app.Config.Run.FundsFile
			}
			funds, err := config.LoadFunds(path)
			if err != nil {
				app.Logger.Warn().Err(err).Msg("Could not load funds")
			}
			if len(funds) == 0 {
				output.Error("❌ No funds configured. Please check your %s file.", path)
				return nil
			}

			output.Info("📊 Found %d fund(s) to scrape:", len(funds))
			for i, f := range funds {
				output.Printf("  %d. %s\n", i+1, f.Name)
			}

			driver, err := app.newDriver(cmd)
			if err != nil {
				return err
			}
			return runFunds(cmd, driver, funds)
		},
	}

	cmd.Flags().String("funds", "", "funds YAML file (default from config)")
	cmd.Flags().String("engine", "", "renderer engine: chrome or http (default from config)")
	cmd.Flags().Duration("pacing", -1, "pause between funds (default from config)")
	return cmd
}

func newFundCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund <url>",
		Short: "Check a single fund page and send an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			fund := models.Fund{Name: name, URL: args[0]}
			if fund.Name == "" {
				fund.Name = notify.DefaultTitle
			}

			driver, err := app.newDriver(cmd)
			if err != nil {
				return err
			}
			return runFunds(cmd, driver, []models.Fund{fund})
		},
	}

	cmd.Flags().String("name", "", "fund name used as notification title")
	cmd.Flags().String("engine", "", "renderer engine: chrome or http (default from config)")
	return cmd
}

func (app *App) newDriver(cmd *cobra.Command) (*runner.Driver, error) {
	rcfg := app.Config.Renderer
	if engine, _ := cmd.Flags().GetString("engine"); engine != "" {
		rcfg.Engine = engine
	}
	if rcfg.Engine != config.EngineChrome && rcfg.Engine != config.EngineHTTP {
		return nil, errors.NewValidationError("engine", rcfg.Engine, "must be 'chrome' or 'http'")
	}

	pacing := app.Config.Run.Pacing
	if cmd.Flags().Lookup("pacing") != nil {
		if d, _ := cmd.Flags().GetDuration("pacing"); d >= 0 {
			pacing = d
		}
	}

	renderer := render.New(rcfg, app.Logger)
	multi := notify.NewMultiNotifier(app.Config.Notifications, app.Logger)
	var notifier notify.Notifier = multi
	if len(multi.Channels()) == 0 {
		app.Logger.Warn().Msg("No notification channels enabled, alerts will only be logged")
		notifier = notify.NewNoOpNotifier()
	}

	return runner.NewDriver(renderer, notifier, app.Logger, runner.WithPacing(pacing)), nil
}

func runFunds(cmd *cobra.Command, driver *runner.Driver, funds []models.Fund) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := driver.Run(ctx, funds)
	if err != nil && !errors.Is(err, errors.ErrNoFunds) {
		return err
	}
	return printSummary(NewOutput(cmd), summary)
}

func printSummary(output *Output, summary runner.Summary) error {
	if output.IsJSON() {
		type fundResult struct {
			Fund    string `json:"fund"`
			Outcome string `json:"outcome"`
			Message string `json:"message,omitempty"`
			Error   string `json:"error,omitempty"`
		}
		results := make([]fundResult, 0, len(summary.Reports))
		for _, r := range summary.Reports {
			fr := fundResult{Fund: r.Fund.Name, Outcome: string(r.Outcome), Message: r.Message}
			if r.Err != nil {
				fr.Error = r.Err.Error()
			}
			results = append(results, fr)
		}
		return output.JSON(map[string]interface{}{
			"total":     summary.Total,
			"succeeded": summary.Succeeded,
			"failed":    summary.Failed,
			"funds":     results,
		})
	}

	output.Println()
	output.Bold("SCRAPING SUMMARY")
	for _, r := range summary.Reports {
		switch r.Outcome {
		case runner.OutcomeNotified:
			output.Success("✅ %s: %s", r.Fund.Name, r.Message)
		case runner.OutcomeNoData:
			output.Warning("❌ %s: no valid price data found", r.Fund.Name)
		case runner.OutcomeUndelivered:
			output.Warning("⚠️  %s: %s (not delivered: %v)", r.Fund.Name, r.Message, r.Err)
		default:
			output.Error("❌ %s: %s", r.Fund.Name, r.Message)
		}
	}
	output.Printf("✅ Successful scrapes: %d\n", summary.Succeeded)
	output.Printf("❌ Failed scrapes: %d\n", summary.Failed)
	output.Printf("📊 Total funds processed: %d\n", summary.Total)
	return nil
}
