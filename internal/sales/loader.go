package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCSVName is the input file looked up next to the executable.
const DefaultCSVName = "sales.csv"

const (
	dateColumn  = "Date"
	salesColumn = "Sales"
)

// ErrNotFound is returned when the sales CSV does not exist.
var ErrNotFound = errors.New("sales data file not found")

// MalformedRowError reports a CSV row that could not be turned into a Record.
// Line is 1-based and counts the header.
type MalformedRowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("malformed csv at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed csv at line %d: column %s value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// DefaultCSVPath returns sales.csv in the executable's directory, or in the
// working directory if the executable cannot be located.
func DefaultCSVPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultCSVName
	}
	return filepath.Join(filepath.Dir(exe), DefaultCSVName)
}

// Load reads every row of the CSV at path. A missing file yields an error
// wrapping ErrNotFound; any unparseable row aborts the load.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open sales data: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads sales records from CSV content with a Date,Sales header.
// Columns are matched by header name, so their order is free.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedRowError{Line: 1, Err: errors.New("missing header row")}
		}
		return nil, &MalformedRowError{Line: 1, Err: err}
	}
	dateIdx, salesIdx := -1, -1
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(name, dateColumn):
			dateIdx = i
		case strings.EqualFold(name, salesColumn):
			salesIdx = i
		}
	}
	if dateIdx < 0 || salesIdx < 0 {
		return nil, &MalformedRowError{Line: 1, Err: fmt.Errorf("header must contain %s and %s columns, got %v", dateColumn, salesColumn, header)}
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &MalformedRowError{Line: line, Err: err}
		}
		raw := strings.TrimSpace(row[salesIdx])
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &MalformedRowError{Line: line, Column: salesColumn, Value: raw, Err: err}
		}
		records = append(records, Record{
			Date:  strings.TrimSpace(row[dateIdx]),
			Sales: amount,
		})
	}
	return records, nil
}
