package fileparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

const (
	textColumn  = "text"
	labelColumn = "label"
)

type format int

const (
	formatText format = iota
	formatCSV
	formatXLSX
	formatXLS
)

var (
	errEmptyFile   = errors.New("no columns to parse from file")
	errLegacyExcel = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")
	errNotUTF8     = errors.New("file is not valid UTF-8 text")
	errNoSheets    = errors.New("workbook has no sheets")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type parser struct{}

// NewParser creates a parser for CSV, XLSX and newline-delimited text uploads
func NewParser() service.CorpusParser {
	return &parser{}
}

// Parse reads an uploaded file into rows. The format comes from the file extension,
// or from the content when the name has none. Tabular files use the "text" column,
// or the first column when there is none, and an optional "label" column.
func (p *parser) Parse(filename string, content []byte) ([]entity.Row, error) {
	switch detectFormat(filename, content) {
	case formatCSV:
		return parseCSV(content)
	case formatXLSX:
		return parseXLSX(content)
	case formatXLS:
		return nil, errLegacyExcel
	default:
		return parseText(content)
	}
}

func detectFormat(filename string, content []byte) format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return formatCSV
	case ".xlsx", ".xlsm":
		return formatXLSX
	case ".xls":
		return formatXLS
	case "":
		return sniffFormat(content)
	default:
		return formatText
	}
}

func sniffFormat(content []byte) format {
	mtype := mimetype.Detect(content)
	switch {
	case mtype.Is("text/csv"):
		return formatCSV
	case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
		return formatXLSX
	case mtype.Is("application/vnd.ms-excel"):
		return formatXLS
	default:
		return formatText
	}
}

func parseCSV(content []byte) ([]entity.Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	// short rows are padded by rowsFromTable, stray quotes are kept as text
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errEmptyFile
	}
	return rowsFromTable(records[0], records[1:]), nil
}

func parseXLSX(content []byte) ([]entity.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, errEmptyFile
	}
	return rowsFromTable(records[0], records[1:]), nil
}

func parseText(content []byte) ([]entity.Row, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, errNotUTF8
	}

	lines := strings.FieldsFunc(string(content), func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	rows := make([]entity.Row, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, entity.Row{Text: line})
	}
	return rows, nil
}

// rowsFromTable maps a header and data records to rows, skipping fully blank records
func rowsFromTable(header []string, records [][]string) []entity.Row {
	textIdx, labelIdx := 0, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case textColumn:
			textIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if labelIdx == textIdx {
		labelIdx = -1
	}

	rows := make([]entity.Row, 0, len(records))
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		row := entity.Row{Text: cell(record, textIdx)}
		if labelIdx >= 0 {
			row.Label = cell(record, labelIdx)
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
