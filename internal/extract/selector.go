// Package extract turns a rendered fund page into a ready-to-send alert.
//
// The pipeline is: ParseTables -> SelectTable -> ClassifyRows -> Format, with
// ComputeChange used by the formatter. Every step is pure.
package extract

import (
	"strings"

	"vanguard-notifier/internal/models"
)

// TableKeywords are matched against the lower-cased header text of a table to
// decide whether it holds prices.
var TableKeywords = []string{"date", "price", "nav", "unit", "value", "distribution"}

// ScreenHeaders returns the header cells used to screen a table: the cells of
// the <thead> rows when present, otherwise the cells of the first row.
func ScreenHeaders(t models.Table) []string {
	var headers []string
	for _, r := range t.HeaderRows() {
		headers = append(headers, r.Cells...)
	}
	return headers
}

// IsPriceTable reports whether the joined header text contains a keyword.
func IsPriceTable(headers []string) bool {
	if len(headers) == 0 {
		return false
	}
	text := strings.ToLower(strings.Join(headers, " "))
	for _, kw := range TableKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// SelectTable returns the first table in document order whose headers look
// like a price table, along with its index.
func SelectTable(tables []models.Table) (models.Table, int, bool) {
	for i, t := range tables {
		if IsPriceTable(ScreenHeaders(t)) {
			return t, i, true
		}
	}
	return models.Table{}, -1, false
}
