package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of an Excel workbook into header-keyed
// records, matching the shape ParseCSV produces. The four source tables are
// maintained as .xlsx workbooks.
func ParseXLSX(data []byte) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	headerCount := len(headers)

	var records []map[string]string
	var warnings []ParseWarning

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-indexed, header is row 1

		if isBlankRow(row) {
			continue
		}

		// GetRows trims trailing empty cells; pad short rows silently and
		// only warn when a row is wider than the header.
		if len(row) > headerCount {
			warnings = append(warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
			})
			row = row[:headerCount]
		}

		record := make(map[string]string, headerCount)
		for j, h := range headers {
			if j < len(row) {
				record[h] = strings.TrimSpace(row[j])
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}

	return &ParseResult{
		Records:  records,
		Warnings: warnings,
	}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
