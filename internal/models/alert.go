package models

import "time"

// Schema identifies the shape of a price table from its headers.
type Schema int

const (
	SchemaGeneric Schema = iota
	SchemaDailyPrice
	SchemaDistribution
)

func (s Schema) String() string {
	switch s {
	case SchemaDailyPrice:
		return "daily_price"
	case SchemaDistribution:
		return "distribution"
	default:
		return "generic"
	}
}

// Direction is the direction of a price move.
type Direction int

const (
	DirectionFlat Direction = iota
	DirectionUp
	DirectionDown
)

// Terse returns the label used in push notifications.
func (d Direction) Terse() string {
	switch d {
	case DirectionUp:
		return "UP"
	case DirectionDown:
		return "DOWN"
	default:
		return "SAME"
	}
}

// Verbose returns the decorated label used in multi-line bodies.
func (d Direction) Verbose() string {
	switch d {
	case DirectionUp:
		return "📈 UP"
	case DirectionDown:
		return "📉 DOWN"
	default:
		return "➡️ UNCHANGED"
	}
}

func (d Direction) String() string {
	return d.Terse()
}

// Change is the move between two observations of the same field.
type Change struct {
	Absolute  float64
	Percent   float64
	Direction Direction
}

// Severity is the severity of an alert.
type Severity string

const (
	SeverityNormal Severity = "normal"
	SeverityError  Severity = "error"
)

// Alert is the unit handed to the notification sink.
type Alert struct {
	Title    string
	Body     string
	Detail   string // verbose body for richer channels
	Severity Severity
	Created  time.Time
}

// IsError reports whether the alert reports a failure.
func (a Alert) IsError() bool {
	return a.Severity == SeverityError
}
