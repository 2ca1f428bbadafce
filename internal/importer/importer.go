// Package importer reads vocabulary rows from spreadsheets.
//
// A sheet either starts with a header row naming its columns (jp, reading,
// vi, tags, example_jp, example_vi, in any order) or uses that column order
// without a header. Rows go through the same item filter and coercion as
// JSON imports.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/normalize"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are not JSON, XLSX or CSV
var ErrUnsupportedFormat = errors.New("importer: unsupported file format")

// Format is the payload format of an import file
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the format from a file name
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Options tune spreadsheet reading
type Options struct {
	// Sheet is the XLSX sheet to read. Empty means the first sheet.
	Sheet string
}

const (
	colJP = iota
	colReading
	colVI
	colTags
	colExampleJP
	colExampleVI
	columnCount
)

var headerNames = map[string]int{
	"jp":         colJP,
	"japanese":   colJP,
	"reading":    colReading,
	"kana":       colReading,
	"vi":         colVI,
	"vietnamese": colVI,
	"tags":       colTags,
	"example_jp": colExampleJP,
	"example_vi": colExampleVI,
}

// Read parses spreadsheet rows into items without IDs
func Read(r io.Reader, format Format, opts Options) ([]domain.Item, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r, opts.Sheet)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return rowsToItems(rows), nil
}

// ReadFile is Read on a file, with the format taken from its extension
func ReadFile(path string, opts Options) ([]domain.Item, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, format, opts)
}

func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}

// rowsToItems maps cells to item fields and hands the records to the
// normalizer so spreadsheets and JSON share one filter
func rowsToItems(rows [][]string) []domain.Item {
	if len(rows) == 0 {
		return []domain.Item{}
	}

	columns, hasHeader := parseHeader(rows[0])
	if hasHeader {
		rows = rows[1:]
	}

	records := make([]any, 0, len(rows))
	for _, row := range rows {
		var fields [columnCount]string
		for i, cell := range row {
			if i < len(columns) && columns[i] >= 0 {
				fields[columns[i]] = strings.TrimSpace(cell)
			}
		}
		records = append(records, toRecord(fields))
	}

	return normalize.ExtractImportItems(records)
}

// parseHeader returns the field index of every column. Without a recognized
// header the default column order applies.
func parseHeader(row []string) ([]int, bool) {
	columns := make([]int, len(row))
	found := false
	for i, cell := range row {
		idx, ok := headerNames[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			columns[i] = -1
			continue
		}
		columns[i] = idx
		found = true
	}
	if found {
		return columns, true
	}

	columns = make([]int, columnCount)
	for i := range columns {
		columns[i] = i
	}
	return columns, false
}

func toRecord(fields [columnCount]string) map[string]any {
	record := map[string]any{
		"jp":      fields[colJP],
		"reading": fields[colReading],
		"vi":      fields[colVI],
	}

	tags := []any{}
	for _, tag := range strings.FieldsFunc(fields[colTags], func(r rune) bool { return r == ',' || r == ';' }) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	record["tags"] = tags

	examples := []any{}
	if fields[colExampleJP] != "" || fields[colExampleVI] != "" {
		examples = append(examples, map[string]any{
			"jp": fields[colExampleJP],
			"vi": fields[colExampleVI],
		})
	}
	record["examples"] = examples

	return record
}
