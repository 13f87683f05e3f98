package extract

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/models"
)

const dailyPage = `<html><head><title>Vanguard Diversified Growth</title></head><body>
<table><tr><td>Overview</td><td>Holdings</td></tr></table>
<div role="tabpanel">
<table>
  <thead><tr><th>Date</th><th>Buy</th><th>Sell</th><th>NAV</th></tr></thead>
  <tbody>
    <tr><td>01/02</td><td>$1.10</td><td>$1.05</td><td>$1.08</td></tr>
    <tr><td>31/01</td><td>$1.00</td><td>$0.95</td><td>$0.98</td></tr>
  </tbody>
</table>
</div>
</body></html>`

const singleRowPage = `<table>
  <tr><th>Date</th><th>Buy</th><th>Sell</th><th>NAV</th></tr>
  <tr><td>01/02</td><td>$1.10</td><td>$1.05</td><td>$1.08</td></tr>
</table>`

func TestPipeline_DailyPrice(t *testing.T) {
	res, err := NewPipeline(zerolog.Nop()).Extract(models.RenderedPage(dailyPage))
	require.NoError(t, err)

	assert.Equal(t, StatusAlert, res.Status)
	assert.True(t, res.HasAlert())
	assert.NoError(t, res.Reason())
	assert.Equal(t, "Vanguard Diversified Growth", res.Title)
	assert.Equal(t, 2, res.TableCount)
	assert.Equal(t, 1, res.TableIndex)
	assert.Equal(t, models.SchemaDailyPrice, res.Schema)
	assert.Equal(t, "VG Fund 01/02: $1.10/$1.05 UP +10.0%", res.Terse)
	assert.Contains(t, res.Verbose, "*Price Change:* $+0.1000 (+10.00%) 📈 UP")
	require.NotNil(t, res.Previous)
	assert.Equal(t, "31/01", res.Previous.Cells[0])
}

func TestPipeline_SingleRow(t *testing.T) {
	res, err := NewPipeline(zerolog.Nop()).Extract(models.RenderedPage(singleRowPage))
	require.NoError(t, err)

	assert.Equal(t, StatusAlert, res.Status)
	assert.Nil(t, res.Previous)
	assert.Equal(t, "VG Fund 01/02: Buy $1.10, Sell $1.05", res.Terse)
}

func TestPipeline_NoTable(t *testing.T) {
	res, err := NewPipeline(zerolog.Nop()).Extract(models.RenderedPage("<html><body>Loading</body></html>"))
	require.NoError(t, err)

	assert.Equal(t, StatusNoTable, res.Status)
	assert.False(t, res.HasAlert())
	assert.Equal(t, 0, res.TableCount)
	assert.Equal(t, -1, res.TableIndex)
	assert.True(t, errors.Is(res.Reason(), errors.ErrNoQualifyingTable))
	assert.Empty(t, res.Terse)
}

func TestPipeline_NoRows(t *testing.T) {
	page := `<table><tr><th>Date</th><th>Price</th></tr><tr><td>01/02</td><td>pending</td></tr></table>`
	res, err := NewPipeline(zerolog.Nop()).Extract(models.RenderedPage(page))
	require.NoError(t, err)

	assert.Equal(t, StatusNoRows, res.Status)
	assert.Equal(t, 0, res.TableIndex)
	assert.True(t, errors.Is(res.Reason(), errors.ErrNoDataRows))
}

func TestPipeline_FirstQualifyingTableWins(t *testing.T) {
	// The first table passes the screen but has no price rows; later tables
	// are not considered.
	page := `<table><tr><th>Date</th><th>Event</th></tr><tr><td>01/02</td><td>AGM</td></tr></table>
<table><tr><th>Date</th><th>Buy</th><th>Sell</th></tr><tr><td>01/02</td><td>$1.10</td><td>$1.05</td></tr></table>`
	res, err := NewPipeline(zerolog.Nop()).Extract(models.RenderedPage(page))
	require.NoError(t, err)

	assert.Equal(t, StatusNoRows, res.Status)
	assert.Equal(t, 0, res.TableIndex)
}
