// Package input reads lead URL lists from plain text, CSV and XLSX files.
package input

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-enricher/internal/enrich"
)

// Kind is the layout of an input file.
type Kind string

const (
	KindText Kind = "text"
	KindCSV  Kind = "csv"
	KindTSV  Kind = "tsv"
	KindXLSX Kind = "xlsx"
)

// urlColumns are header names recognized as the website column.
var urlColumns = []string{"website", "url", "domain", "homepage", "company website", "site"}

// KindFromPath picks the layout from the file extension. "-" and unknown
// extensions are plain text.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV
	case ".tsv":
		return KindTSV
	case ".xlsx":
		return KindXLSX
	default:
		return KindText
	}
}

// ReadFile reads URLs from path. A path of "-" reads plain text from stdin.
func ReadFile(path string) ([]string, error) {
	if path == "-" {
		return Read(os.Stdin, KindText)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return Read(f, KindFromPath(path))
}

// Read parses URLs from r. Blank entries are dropped; order and duplicates
// are kept.
func Read(r io.Reader, kind Kind) ([]string, error) {
	switch kind {
	case KindText:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "input: read text")
		}
		return enrich.ParseURLs(string(data)), nil
	case KindCSV, KindTSV:
		rows, err := readDelimited(r, kind)
		if err != nil {
			return nil, err
		}
		return urlsFromRows(rows), nil
	case KindXLSX:
		rows, err := readXLSX(r)
		if err != nil {
			return nil, err
		}
		return urlsFromRows(rows), nil
	default:
		return nil, eris.Errorf("input: unknown kind %q", kind)
	}
}

func readDelimited(r io.Reader, kind Kind) ([][]string, error) {
	reader := csv.NewReader(r)
	if kind == KindTSV {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "input: read csv")
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "input: read xlsx")
	}
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "input: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("input: xlsx has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// urlsFromRows takes the website column when the first row is a header
// naming one, otherwise the first column of every row.
func urlsFromRows(rows [][]string) []string {
	if len(rows) == 0 {
		return []string{}
	}

	col, skip := 0, 0
	if idx := headerIndex(rows[0]); idx >= 0 {
		col, skip = idx, 1
	}

	out := make([]string, 0, len(rows)-skip)
	for _, row := range rows[skip:] {
		if col < len(row) {
			out = append(out, row[col])
		}
	}
	return enrich.CleanURLs(out)
}

func headerIndex(header []string) int {
	for _, name := range urlColumns {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}
