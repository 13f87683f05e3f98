package extract

import (
	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/models"
)

// Classification is the result of splitting a table into headers and
// observations.
type Classification struct {
	// Headers are read from the first physical row, whether or not the table
	// had a <thead>. The screen pass in SelectTable prefers <thead>; schema
	// detection deliberately does not.
	Headers      []string
	Observations []models.Row
}

// Latest returns the first observation.
func (c Classification) Latest() (models.Row, bool) {
	if len(c.Observations) == 0 {
		return models.Row{}, false
	}
	return c.Observations[0], true
}

// Previous returns the second observation, if any.
func (c Classification) Previous() (models.Row, bool) {
	if len(c.Observations) < 2 {
		return models.Row{}, false
	}
	return c.Observations[1], true
}

// ClassifyRows splits a selected table into header cells and price
// observations in document order. It returns ErrNoDataRows when no data row
// qualifies.
func ClassifyRows(t models.Table) (Classification, error) {
	var obs []models.Row
	for _, r := range t.Rows {
		if r.Header {
			continue
		}
		if r.IsPriceObservation() {
			obs = append(obs, r)
		}
	}

	if len(obs) == 0 {
		return Classification{}, errors.ErrNoDataRows
	}

	return Classification{
		Headers:      t.FirstRowCells(),
		Observations: obs,
	}, nil
}
