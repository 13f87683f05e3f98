package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"vanguard-notifier/internal/models"
)

var (
	dailyHeaders = []string{"Date", "Buy", "Sell", "NAV"}
	distHeaders  = []string{"Distribution date", "Cents per unit", "Ex date", "Reinvestment price"}
)

func TestDetectSchema(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    models.Schema
	}{
		{"daily price", dailyHeaders, models.SchemaDailyPrice},
		{"daily price any order", []string{"Sell", "Date", "Buy"}, models.SchemaDailyPrice},
		{"distribution", distHeaders, models.SchemaDistribution},
		{"daily wins over distribution", []string{"Date", "Buy", "Sell", "Distribution date"}, models.SchemaDailyPrice},
		{"exact match only", []string{"date", "buy", "sell"}, models.SchemaGeneric},
		{"missing sell", []string{"Date", "Buy"}, models.SchemaGeneric},
		{"empty", nil, models.SchemaGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSchema(tt.headers))
		})
	}
}

func TestFormat_Terse(t *testing.T) {
	daily := row(false, "01/02", "$1.10", "$1.05", "$1.08")
	dailyPrev := row(false, "31/01", "$1.00", "$0.95", "$0.98")
	dist := row(false, "30/06", "1.2345", "01/07", "$2.00")
	distPrev := row(false, "31/03", "1.0000", "01/04", "$2.50")
	unparsable := row(false, "31/01", "closed", "$0.95")

	tests := []struct {
		name     string
		headers  []string
		latest   models.Row
		previous *models.Row
		want     string
	}{
		{"daily with change", dailyHeaders, daily, &dailyPrev, "VG Fund 01/02: $1.10/$1.05 UP +10.0%"},
		{"daily without previous", dailyHeaders, daily, nil, "VG Fund 01/02: Buy $1.10, Sell $1.05"},
		{"daily unparsable previous", dailyHeaders, daily, &unparsable, "VG Fund 01/02: Buy $1.10, Sell $1.05"},
		{"daily flat", dailyHeaders, dailyPrev, &dailyPrev, "VG Fund 31/01: $1.00/$0.95 SAME +0.0%"},
		{"daily short row", dailyHeaders, row(false, "01/02", "$1.10"), nil, "VG Fund 01/02: Buy $1.10, Sell N/A"},
		{"distribution with change", distHeaders, dist, &distPrev, "VG Dist 30/06: $2.00 DOWN -20.0%"},
		{"distribution without previous", distHeaders, dist, nil, "VG Dist 30/06: CPU 1.2345, Price $2.00"},
		{"generic", []string{"Date", "Price", "Units", "Extra"}, row(false, "01/02", "$5.00", "10", "x"), nil,
			"VG Fund 01/02, Price: $5.00, Units: 10"},
		{"generic short latest", []string{"Date", "Price", "Units"}, row(false, "01/02", "$5.00"), nil,
			"VG Fund 01/02, Price: $5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.headers, tt.latest, tt.previous, StyleTerse))
		})
	}
}

func TestFormat_Verbose(t *testing.T) {
	latest := row(false, "01/02", "$1.10", "$1.05", "$1.08", "ignored")
	prev := row(false, "31/01", "$1.00", "$0.95", "$0.98")
	headers := append(append([]string{}, dailyHeaders...), "Fifth")

	want := "*📊 Vanguard Fund Price Update*\n\n" +
		"*Latest Price Data:*\n" +
		"• *Date:* 01/02\n• *Buy:* $1.10\n• *Sell:* $1.05\n• *NAV:* $1.08\n" +
		"\n*Previous Price Data:*\n" +
		"• *Date:* 31/01\n• *Buy:* $1.00\n• *Sell:* $0.95\n• *NAV:* $0.98\n" +
		"\n*Price Change:* $+0.1000 (+10.00%) 📈 UP"
	assert.Equal(t, want, Format(headers, latest, &prev, StyleVerbose))
}

func TestFormat_VerboseChangeUnavailable(t *testing.T) {
	latest := row(false, "01/02", "$1.10")
	prev := row(false, "31/01", "$0.00")

	got := Format([]string{"Date", "Price"}, latest, &prev, StyleVerbose)
	assert.True(t, strings.HasSuffix(got, "\n*Price change calculation not available*"), got)

	got = Format([]string{"Date", "Price"}, latest, nil, StyleVerbose)
	assert.NotContains(t, got, "Previous Price Data")
	assert.NotContains(t, got, "Price Change")
}

// Any header set containing Date, Buy and Sell is a daily price table, and a
// terse daily message always names the latest date.
func TestProperty_DailySchemaDispatch(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	extra := gen.SliceOf(gen.AlphaString())

	properties.Property("Date+Buy+Sell selects daily price", prop.ForAll(
		func(others []string) bool {
			headers := append([]string{"Buy"}, others...)
			headers = append(headers, "Sell", "Date")
			return DetectSchema(headers) == models.SchemaDailyPrice
		},
		extra,
	))

	properties.Property("terse daily message starts with the date", prop.ForAll(
		func(date string, buyCents, sellCents int64) bool {
			latest := row(false, date, centsString(buyCents), centsString(sellCents))
			msg := Format(dailyHeaders, latest, nil, StyleTerse)
			return strings.HasPrefix(msg, "VG Fund "+date+": Buy ")
		},
		gen.AlphaString(), gen.Int64Range(0, 1_000_000), gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}

func centsString(c int64) string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}
