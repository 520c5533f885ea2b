// Package chart maps aggregated tables to declarative chart specifications.
// It performs no computation beyond labelling; rendering is left to the
// consumer (the terminal client, or any plotting front end reading the API).
package chart

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMissingField is returned when a layout references a column the table
// does not have.
var ErrMissingField = errors.New("chart: table lacks required field")

// Kind identifies the visual form of a chart.
type Kind string

const (
	KindTimeHistogram  Kind = "time-histogram"
	KindHorizontalBar  Kind = "horizontal-bar"
	KindLineByCategory Kind = "line-by-category"
)

// Orientation of the value axis.
type Orientation string

const (
	Vertical   Orientation = "v"
	Horizontal Orientation = "h"
)

// Table is a column-oriented view of an aggregated result. Cells hold
// string, int64 or float64 values.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Col returns the index of a column, or -1.
func (t Table) Col(name string) int {
	return slices.Index(t.Columns, name)
}

// Axis describes one chart axis.
type Axis struct {
	Field    string `json:"field"`
	Title    string `json:"title"`
	Reversed bool   `json:"reversed,omitempty"`
}

// Layout holds everything about a chart except its data.
type Layout struct {
	Title       string      `json:"title,omitempty"`
	X           Axis        `json:"x"`
	Y           Axis        `json:"y"`
	Color       string      `json:"color,omitempty"`
	Orientation Orientation `json:"orientation"`
	BinSize     string      `json:"bin_size,omitempty"`
	RangeX      []string    `json:"range_x,omitempty"`
	Mode        string      `json:"mode,omitempty"`
	ShowLegend  bool        `json:"show_legend"`
	Template    string      `json:"template,omitempty"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
}

// Spec is a complete declarative chart.
type Spec struct {
	Kind Kind `json:"kind"`
	Layout
	Data Table `json:"data"`
}

// Build attaches a table to a layout, checking that every referenced field
// exists in the table.
func Build(kind Kind, t Table, l Layout) (Spec, error) {
	for _, field := range []string{l.X.Field, l.Y.Field, l.Color} {
		if field == "" {
			continue
		}
		if t.Col(field) < 0 {
			return Spec{}, fmt.Errorf("%w: %q (kind %s)", ErrMissingField, field, kind)
		}
	}
	if t.Rows == nil {
		t.Rows = [][]any{}
	}
	return Spec{Kind: kind, Layout: l, Data: t}, nil
}

// Empty reports whether the chart has no data rows.
func (s Spec) Empty() bool {
	return len(s.Data.Rows) == 0
}
