package extract

import (
	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/models"
	"vanguard-notifier/pkg/utils"
)

// ComputeChange computes the move from previous to latest for two cells of
// the same column. A *errors.ChangeError is returned when either value is
// not numeric or previous is zero; callers fall back to a no-change message.
// Parsed amounts are validated exactly and the arithmetic runs in float64, so
// rounding at .x5 boundaries matches %+.1f on the float quotient.
func ComputeChange(latest, previous string) (models.Change, error) {
	l, err := utils.ParseAmount(latest)
	if err != nil {
		return models.Change{}, errors.NewChangeError(errors.ReasonLatestInvalid, latest)
	}
	p, err := utils.ParseAmount(previous)
	if err != nil {
		return models.Change{}, errors.NewChangeError(errors.ReasonPreviousInvalid, previous)
	}
	if p.IsZero() {
		return models.Change{}, errors.NewChangeError(errors.ReasonPreviousZero, previous)
	}

	lf, pf := l.InexactFloat64(), p.InexactFloat64()
	abs := lf - pf
	pct := abs / pf * 100

	dir := models.DirectionFlat
	switch {
	case abs > 0:
		dir = models.DirectionUp
	case abs < 0:
		dir = models.DirectionDown
	}

	return models.Change{
		Absolute:  abs,
		Percent:   pct,
		Direction: dir,
	}, nil
}

// ColumnChange computes the change for column col of two observations.
func ColumnChange(latest, previous models.Row, col int) (models.Change, error) {
	if latest.Len() <= col || previous.Len() <= col {
		return models.Change{}, errors.NewChangeError(errors.ReasonMissingColumn, "")
	}
	return ComputeChange(latest.Cells[col], previous.Cells[col])
}
