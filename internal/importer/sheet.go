// Package importer reads uploaded spreadsheets and turns their rows into
// entities, collecting per-row validation errors.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Format is a supported workbook format.
type Format int

// Supported formats.
const (
	XLSX Format = iota + 1
	XLS
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
)

var (
	// ErrUnsupportedFormat is returned for anything but .xls/.xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptySheet is returned when the first sheet has no data rows.
	ErrEmptySheet = errors.New("sheet has no data rows")
	// ErrMissingColumns is returned when required columns are absent.
	ErrMissingColumns = errors.New("required columns are missing")
)

// DetectFormat accepts a workbook by file extension, falling back to the
// declared MIME type.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return XLSX, nil
	case ".xls":
		return XLS, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch mediaType {
		case mimeXLSX:
			return XLSX, nil
		case mimeXLS:
			return XLS, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// ReadSheet returns the cell values of the first sheet, row by row. Number
// formats are not applied: numbers and dates come back as their stored
// values, dates as Excel serials.
func ReadSheet(filename, contentType string, data []byte) ([][]string, error) {
	format, err := DetectFormat(filename, contentType)
	if err != nil {
		return nil, err
	}
	if format == XLS {
		return readXLS(data)
	}
	return readXLSX(data)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, ErrEmptySheet
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read xls sheet: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var values []string
		for _, cell := range row.GetCols() {
			values = append(values, xlsCellValue(cell))
		}
		rows = append(rows, values)
	}
	return rows, nil
}

// xlsCellValue reads numeric cells by value so that dates stay serials.
func xlsCellValue(cell structure.CellData) string {
	switch cell.(type) {
	case *record.Number, *record.Rk:
		return strconv.FormatFloat(cell.GetFloat64(), 'f', -1, 64)
	}
	return cell.GetString()
}

// Row is one data row keyed by canonical column name. Line is the 1-based
// spreadsheet line, counting the header.
type Row struct {
	Values map[string]string
	Line   int
}

// Get returns the trimmed value of a column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// MissingColumnsError lists the required columns a sheet lacks, each by
// its first accepted header.
type MissingColumnsError struct {
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	return ErrMissingColumns.Error() + ": " + strings.Join(e.Headers, ", ")
}

// Is makes errors.Is(err, ErrMissingColumns) hold.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// Columns maps a canonical column name to the header texts accepted for it.
type Columns map[string][]string

// Table maps the header row through columns and returns the non-empty data
// rows. Unrecognized headers are ignored.
func Table(rows [][]string, columns Columns, required ...string) ([]Row, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	lookup := make(map[string]string)
	for canonical, aliases := range columns {
		lookup[NormalizeHeader(canonical)] = canonical
		for _, alias := range aliases {
			lookup[NormalizeHeader(alias)] = canonical
		}
	}

	index := make(map[int]string)
	present := make(map[string]bool)
	for i, header := range rows[0] {
		if canonical, ok := lookup[NormalizeHeader(header)]; ok && !present[canonical] {
			index[i] = canonical
			present[canonical] = true
		}
	}

	var missing []string
	for _, column := range required {
		if present[column] {
			continue
		}
		header := column
		if aliases := columns[column]; len(aliases) > 0 {
			header = aliases[0] + " (" + column + ")"
		}
		missing = append(missing, header)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Headers: missing}
	}

	var out []Row
	for n, cells := range rows[1:] {
		row := Row{Values: make(map[string]string, len(index)), Line: n + 2}
		empty := true
		for i, cell := range cells {
			column, ok := index[i]
			if !ok {
				continue
			}
			row.Values[column] = cell
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader makes header text comparable: NFC, case folded, single
// spaces, typographic apostrophes unified, trailing markers removed.
func NormalizeHeader(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	s = strings.NewReplacer("’", "'", "ʼ", "'", "`", "'", "_", " ").Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.Trim(s, "*:. ")
}
