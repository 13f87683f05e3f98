package extract

import (
	"fmt"
	"strings"

	"vanguard-notifier/internal/models"
	"vanguard-notifier/pkg/utils"
)

// Style selects the shape of a rendered message.
type Style int

const (
	// StyleTerse is a single line sized for push notifications.
	StyleTerse Style = iota
	// StyleVerbose is a multi-line body for richer channels.
	StyleVerbose
)

const (
	missingValue = "N/A"
	// verboseColumns caps the labeled fields listed per observation.
	verboseColumns = 4
	// genericColumns caps the headers considered by the generic message,
	// column 0 included.
	genericColumns = 3
)

// Column layout of the two known schemas.
const (
	colDate          = 0
	colBuy           = 1
	colSell          = 2
	colCentsPerUnit  = 1
	colReinvestPrice = 3
)

// DetectSchema classifies a header set. DailyPrice wins over Distribution
// when both match.
func DetectSchema(headers []string) models.Schema {
	has := make(map[string]bool, len(headers))
	for _, h := range headers {
		has[h] = true
	}
	switch {
	case has["Date"] && has["Buy"] && has["Sell"]:
		return models.SchemaDailyPrice
	case has["Distribution date"]:
		return models.SchemaDistribution
	default:
		return models.SchemaGeneric
	}
}

// Format renders a message for the latest observation. previous may be nil.
func Format(headers []string, latest models.Row, previous *models.Row, style Style) string {
	if style == StyleVerbose {
		return formatVerbose(headers, latest, previous)
	}
	return formatTerse(headers, latest, previous)
}

func formatTerse(headers []string, latest models.Row, previous *models.Row) string {
	date := latest.Cell(colDate, missingValue)

	switch DetectSchema(headers) {
	case models.SchemaDailyPrice:
		buy := latest.Cell(colBuy, missingValue)
		sell := latest.Cell(colSell, missingValue)
		if previous != nil {
			if ch, err := ColumnChange(latest, *previous, colBuy); err == nil {
				return fmt.Sprintf("VG Fund %s: %s/%s %s %s",
					date, buy, sell, ch.Direction.Terse(), utils.FormatPercent(ch.Percent, 1))
			}
		}
		return fmt.Sprintf("VG Fund %s: Buy %s, Sell %s", date, buy, sell)

	case models.SchemaDistribution:
		cpu := latest.Cell(colCentsPerUnit, missingValue)
		reinvest := latest.Cell(colReinvestPrice, missingValue)
		if previous != nil {
			if ch, err := ColumnChange(latest, *previous, colReinvestPrice); err == nil {
				return fmt.Sprintf("VG Dist %s: %s %s %s",
					date, reinvest, ch.Direction.Terse(), utils.FormatPercent(ch.Percent, 1))
			}
		}
		return fmt.Sprintf("VG Dist %s: CPU %s, Price %s", date, cpu, reinvest)

	default:
		var b strings.Builder
		fmt.Fprintf(&b, "VG Fund %s", date)
		for i, h := range headers {
			if i >= genericColumns {
				break
			}
			if i == colDate || i >= latest.Len() {
				continue
			}
			fmt.Fprintf(&b, ", %s: %s", h, latest.Cells[i])
		}
		return b.String()
	}
}

func formatVerbose(headers []string, latest models.Row, previous *models.Row) string {
	var b strings.Builder
	b.WriteString("*📊 Vanguard Fund Price Update*\n\n")
	b.WriteString("*Latest Price Data:*\n")
	writeFields(&b, headers, latest)

	if previous == nil {
		return b.String()
	}

	b.WriteString("\n*Previous Price Data:*\n")
	writeFields(&b, headers, *previous)

	if latest.Len() < 2 || previous.Len() < 2 {
		return b.String()
	}

	ch, err := ColumnChange(latest, *previous, 1)
	if err != nil {
		b.WriteString("\n*Price change calculation not available*")
		return b.String()
	}
	fmt.Fprintf(&b, "\n*Price Change:* %s (%s) %s",
		utils.FormatSignedCurrency(ch.Absolute),
		utils.FormatPercent(ch.Percent, 2),
		ch.Direction.Verbose())
	return b.String()
}

func writeFields(b *strings.Builder, headers []string, row models.Row) {
	for i, h := range headers {
		if i >= verboseColumns {
			break
		}
		if i < row.Len() {
			fmt.Fprintf(b, "• *%s:* %s\n", h, row.Cells[i])
		}
	}
}
