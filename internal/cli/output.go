package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"vanguard-notifier/internal/models"
	"vanguard-notifier/pkg/utils"
)

// Styles for terminal output
var (
	styleRed    = []color.Attribute{color.FgRed}
	styleGreen  = []color.Attribute{color.FgGreen}
	styleYellow = []color.Attribute{color.FgYellow}
	styleCyan   = []color.Attribute{color.FgCyan}
	styleBold   = []color.Attribute{color.Bold}
	styleDim    = []color.Attribute{color.Faint}
)

// previewCellWidth caps cell width in table previews.
const previewCellWidth = 40

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()
	return &Output{
		writer:       w,
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && w == os.Stdout && !color.NoColor,
	}
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.colored(styleGreen, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.colored(styleRed, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.colored(styleYellow, format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.colored(styleCyan, format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.colored(styleBold, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.colored(styleDim, format, args...)
}

func (o *Output) colored(style []color.Attribute, format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.wrap(style, fmt.Sprintf(format, args...)))
}

// Cyan returns text wrapped in cyan.
func (o *Output) Cyan(text string) string {
	return o.wrap(styleCyan, text)
}

// Yellow returns text wrapped in yellow.
func (o *Output) Yellow(text string) string {
	return o.wrap(styleYellow, text)
}

// BoldText returns text wrapped in bold.
func (o *Output) BoldText(text string) string {
	return o.wrap(styleBold, text)
}

// DimText returns text wrapped in dim.
func (o *Output) DimText(text string) string {
	return o.wrap(styleDim, text)
}

func (o *Output) wrap(style []color.Attribute, text string) string {
	c := color.New(style...)
	if o.colorEnabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// RenderTable prints a table preview: headers plus up to limit rows.
func (o *Output) RenderTable(t models.Table, limit int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(o.writer)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"#", "kind"}
	tw.AppendHeader(header)

	for i, r := range t.Rows {
		if limit > 0 && i >= limit {
			break
		}
		kind := "data"
		switch {
		case r.Header:
			kind = "header"
		case r.IsPriceObservation():
			kind = "price"
		}
		row := table.Row{i + 1, kind}
		for _, c := range r.Cells {
			row = append(row, utils.Truncate(c, previewCellWidth))
		}
		tw.AppendRow(row)
	}

	if limit > 0 && len(t.Rows) > limit {
		tw.AppendFooter(table.Row{"", fmt.Sprintf("%d more rows", len(t.Rows)-limit)})
	}
	tw.Render()
}
