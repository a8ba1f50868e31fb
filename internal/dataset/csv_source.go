package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

const utf8BOM = "\ufeff"

// csvTable is a header-addressed CSV file held in memory.
type csvTable struct {
	path    string
	columns map[string]int
	rows    []csvRow
	// broken holds rows the CSV reader could not parse.
	broken []error
}

type csvRow struct {
	line   int
	fields []string
	table  *csvTable
}

func loadCSV(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return &csvTable{path: path, columns: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	t := &csvTable{path: path, columns: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		t.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				t.broken = append(t.broken, err)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)
		t.rows = append(t.rows, csvRow{line: line, fields: fields, table: t})
	}
	return t, nil
}

func (t *csvTable) require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := t.columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w in %s: %s", ErrMissingColumns, t.path, strings.Join(missing, ", "))
	}
	return nil
}

// value returns the trimmed field and whether the column exists for this row.
func (r csvRow) value(column string) (string, bool) {
	idx, ok := r.table.columns[column]
	if !ok || idx >= len(r.fields) {
		return "", false
	}
	return strings.TrimSpace(r.fields[idx]), true
}

// str returns the field, or def when the column is absent.
func (r csvRow) str(column, def string) string {
	if v, ok := r.value(column); ok {
		return v
	}
	return def
}

func (r csvRow) required(column string) (string, error) {
	v, _ := r.value(column)
	if v == "" {
		return "", fmt.Errorf("line %d: %s is empty", r.line, column)
	}
	return v, nil
}

func (r csvRow) requiredInt(column string) (int64, error) {
	v, err := r.required(column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s %q is not an integer", r.line, column, v)
	}
	return n, nil
}

// integer returns def for an absent or empty column.
func (r csvRow) integer(column string, def int) (int, error) {
	v, _ := r.value(column)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s %q is not an integer", r.line, column, v)
	}
	return n, nil
}

// boolean returns def when the column is absent, otherwise whether the value is "true" in any case.
func (r csvRow) boolean(column string, def bool) bool {
	v, ok := r.value(column)
	if !ok {
		return def
	}
	return strings.EqualFold(v, "true")
}

// timestamp returns nil for an absent or empty column.
func (r csvRow) timestamp(column string) (*time.Time, error) {
	v, _ := r.value(column)
	if v == "" {
		return nil, nil
	}
	t, err := parseTimestamp(v)
	if err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", r.line, column, err)
	}
	return &t, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts RFC 3339 and ISO 8601 without zone, read as UTC.
func parseTimestamp(v string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", v)
}
