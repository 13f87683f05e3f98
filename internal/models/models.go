// Package models provides domain models for the fund price notifier.
package models

import "strings"

// RenderedPage is the final HTML of a fund page after client-side rendering.
type RenderedPage string

// CurrencyMarker marks a cell as carrying a price.
const CurrencyMarker = "$"

// Fund is a configured fund to watch.
type Fund struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
}

// Row represents one table row as trimmed cell texts.
type Row struct {
	Cells  []string
	Header bool
}

// Cell returns the cell at index i, or def if the row is too short.
func (r Row) Cell(i int, def string) string {
	if i < 0 || i >= len(r.Cells) {
		return def
	}
	return r.Cells[i]
}

// Len returns the number of cells.
func (r Row) Len() int {
	return len(r.Cells)
}

// HasCurrency reports whether any cell contains the currency marker.
func (r Row) HasCurrency() bool {
	for _, c := range r.Cells {
		if strings.Contains(c, CurrencyMarker) {
			return true
		}
	}
	return false
}

// IsPriceObservation reports whether the row looks like a dated price point:
// at least two cells and a currency marker somewhere.
func (r Row) IsPriceObservation() bool {
	return len(r.Cells) >= 2 && r.HasCurrency()
}

// Table is a typed projection of an HTML table in document order.
type Table struct {
	Rows []Row
	// HasHead is set when the table carried a <thead> section.
	HasHead bool
}

// HeaderRows returns the rows considered header rows: the <thead> rows, or
// the first row when there is no head section.
func (t Table) HeaderRows() []Row {
	if len(t.Rows) == 0 {
		return nil
	}
	if !t.HasHead {
		return t.Rows[:1]
	}
	var out []Row
	for _, r := range t.Rows {
		if r.Header {
			out = append(out, r)
		}
	}
	return out
}

// FirstRowCells returns the cells of the first physical row.
func (t Table) FirstRowCells() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0].Cells
}
