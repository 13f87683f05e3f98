package cli

import (
	"github.com/spf13/cobra"

	"vanguard-notifier/internal/notify"
)

func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Notification channel tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Send a test notification to every enabled channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ncfg := app.Config.Notifications

			if !output.IsJSON() {
				output.Info("🧪 Testing notifications...")
				output.Printf("   ntfy URL: %s\n", ncfg.Ntfy.URL)
				output.Printf("   Priority: %s\n", ncfg.Ntfy.Priority)
				output.Printf("   Tags:     %s\n", ncfg.Ntfy.Tags)
			}

			notifier := notify.NewMultiNotifier(ncfg, app.Logger)
			channels := notifier.Channels()
			if len(channels) == 0 {
				output.Warning("No notification channels enabled")
				return nil
			}

			err := notifier.SendTest(cmd.Context())
			if output.IsJSON() {
				res := map[string]interface{}{"channels": channels, "sent": err == nil}
				if err != nil {
					res["error"] = err.Error()
				}
				return output.JSON(res)
			}
			if err != nil {
				output.Error("❌ Test notification failed: %v", err)
				return err
			}
			output.Success("✅ Test notification sent to %v", channels)
			return nil
		},
	})

	return cmd
}
