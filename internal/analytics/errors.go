package analytics

import (
	"fmt"
	"strings"
)

// InsufficientDataError reports that a statistic needs more observations
// than the input holds.
type InsufficientDataError struct {
	Op     string
	Ticker string
	Have   int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	if e.Ticker != "" {
		return fmt.Sprintf("%s: insufficient data for %s: have %d, need %d", e.Op, e.Ticker, e.Have, e.Need)
	}
	return fmt.Sprintf("%s: insufficient data: have %d, need %d", e.Op, e.Have, e.Need)
}

// SchemaError reports a required column missing from an external table.
type SchemaError struct {
	Column  string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing column %q (columns are [%s])", e.Column, strings.Join(e.Columns, ", "))
}

// UnknownTickerError reports a requested ticker that is not in the input.
type UnknownTickerError struct {
	Ticker string
}

func (e *UnknownTickerError) Error() string {
	return fmt.Sprintf("unknown ticker %q", e.Ticker)
}
