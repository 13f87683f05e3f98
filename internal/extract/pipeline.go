package extract

import (
	"github.com/rs/zerolog"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/logging"
	"vanguard-notifier/internal/models"
)

// Status is the outcome of an extraction.
type Status int

const (
	// StatusAlert means an alert body was produced.
	StatusAlert Status = iota
	// StatusNoTable means no table on the page looked like a price table.
	StatusNoTable
	// StatusNoRows means the selected table had no price observations.
	StatusNoRows
)

func (s Status) String() string {
	switch s {
	case StatusAlert:
		return "alert"
	case StatusNoTable:
		return "no_table"
	case StatusNoRows:
		return "no_rows"
	default:
		return "unknown"
	}
}

// Result is the outcome of running the pipeline over one page.
type Result struct {
	Status     Status
	Title      string // page <title>
	TableCount int
	TableIndex int
	Table      models.Table
	Schema     models.Schema
	Headers    []string
	Latest     models.Row
	Previous   *models.Row
	Terse      string
	Verbose    string
}

// HasAlert reports whether the result carries a message to send.
func (r Result) HasAlert() bool {
	return r.Status == StatusAlert
}

// Reason returns the benign error describing an empty result, or nil.
func (r Result) Reason() error {
	switch r.Status {
	case StatusNoTable:
		return errors.ErrNoQualifyingTable
	case StatusNoRows:
		return errors.ErrNoDataRows
	default:
		return nil
	}
}

// Pipeline converts rendered HTML into alert bodies.
type Pipeline struct {
	logger zerolog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(logger zerolog.Logger) *Pipeline {
	return &Pipeline{logger: logging.WithOperation(logger, "extract")}
}

// Extract runs the pipeline. "No table" and "no rows" are reported through
// Result.Status; the returned error is non-nil only when the document cannot
// be parsed.
func (p *Pipeline) Extract(page models.RenderedPage) (Result, error) {
	tables, doc, err := ParseTables(page)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Title:      PageTitle(doc),
		TableCount: len(tables),
		TableIndex: -1,
	}
	p.logger.Debug().Int("tables", len(tables)).Str("title", res.Title).Msg("Parsed page")

	for i, t := range tables {
		logging.LogTable(p.logger, i, len(t.Rows), ScreenHeaders(t))
	}

	table, idx, ok := SelectTable(tables)
	if !ok {
		res.Status = StatusNoTable
		return res, nil
	}
	res.Table = table
	res.TableIndex = idx

	cls, err := ClassifyRows(table)
	if err != nil {
		res.Status = StatusNoRows
		return res, nil
	}

	res.Headers = cls.Headers
	res.Schema = DetectSchema(cls.Headers)
	res.Latest, _ = cls.Latest()
	if prev, ok := cls.Previous(); ok {
		res.Previous = &prev
	}

	res.Terse = Format(res.Headers, res.Latest, res.Previous, StyleTerse)
	res.Verbose = Format(res.Headers, res.Latest, res.Previous, StyleVerbose)
	res.Status = StatusAlert

	logging.LogExtraction(p.logger, res.Schema.String(), len(cls.Observations), res.Terse)
	return res, nil
}
