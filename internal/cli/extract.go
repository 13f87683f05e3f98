package cli

import (
	"os"

	"github.com/spf13/cobra"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/extract"
	"vanguard-notifier/internal/models"
)

func newExtractCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file.html>",
		Short: "Run the extraction pipeline on a saved page",
		Long: `Parse a saved HTML page, show the tables found, the table chosen as the
price table and the messages that would be sent. Nothing is rendered or sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			rows, _ := cmd.Flags().GetInt("rows")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", args[0])
			}

			res, err := extract.NewPipeline(app.Logger).Extract(models.RenderedPage(data))
			if err != nil {
				return err
			}

			if output.IsJSON() {
				out := map[string]interface{}{
					"title":       res.Title,
					"tables":      res.TableCount,
					"table_index": res.TableIndex,
					"status":      res.Status.String(),
				}
				if res.HasAlert() {
					out["schema"] = res.Schema.String()
					out["headers"] = res.Headers
					out["terse"] = res.Terse
					out["verbose"] = res.Verbose
				}
				return output.JSON(out)
			}

			output.Bold("Page: %s", res.Title)
			output.Printf("Tables found: %d\n", res.TableCount)

			if res.TableIndex < 0 {
				output.Warning("No price table found")
				return nil
			}

			output.Info("Price table: #%d (%d rows)", res.TableIndex+1, len(res.Table.Rows))
			output.RenderTable(res.Table, rows)

			if !res.HasAlert() {
				output.Warning("No valid price data found: %v", res.Reason())
				return nil
			}

			output.Println()
			output.Printf("Schema: %s\n", res.Schema)
			output.Bold("Notification")
			output.Println(res.Terse)
			output.Println()
			output.Bold("Detailed")
			output.Println(res.Verbose)
			return nil
		},
	}

	cmd.Flags().Int("rows", 10, "number of table rows to preview (0 for all)")
	return cmd
}
