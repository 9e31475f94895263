// Package report renders an enrichment report as CSV, XLSX, JSON or a
// terminal table.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-enricher/internal/model"
)

// Download names and content types.
const (
	CSVFilename     = "enriched_leads.csv"
	CSVContentType  = "text/csv"
	XLSXFilename    = "enriched_leads.xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	JSONFilename    = "enriched_leads.json"
	JSONContentType = "application/json"

	// SheetName is the single worksheet of the XLSX download.
	SheetName = "Leads"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatCSV, FormatXLSX, FormatJSON}

// ParseFormat parses a format name, case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", eris.Errorf("report: unknown format %q (want csv, xlsx or json)", s)
	}
}

// Filename returns the download name for the format.
func (f Format) Filename() string {
	switch f {
	case FormatXLSX:
		return XLSXFilename
	case FormatJSON:
		return JSONFilename
	default:
		return CSVFilename
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return XLSXContentType
	case FormatJSON:
		return JSONContentType
	default:
		return CSVContentType
	}
}

// Write encodes r to w in the given format.
func Write(w io.Writer, f Format, r *model.Report) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return eris.Errorf("report: unknown format %q", f)
	}
}

// WriteCSV writes the header row and one row per record.
func WriteCSV(w io.Writer, r *model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header()); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	if err := cw.WriteAll(r.Rows()); err != nil {
		return eris.Wrap(err, "report: write csv rows")
	}
	return nil
}

// Encode returns r encoded in the given format.
func Encode(f Format, r *model.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes a workbook with a single Leads sheet.
func WriteXLSX(w io.Writer, r *model.Report) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	addRow := func(cells []string) {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	addRow(r.Header())
	for _, row := range r.Rows() {
		addRow(row)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return eris.Wrap(err, "report: write json")
	}
	return nil
}
