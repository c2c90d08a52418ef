package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseWarning represents a non-fatal issue encountered while parsing a
// tabular source.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult contains the parsed records alongside any warnings.
type ParseResult struct {
	Records  []map[string]string `json:"records"`
	Warnings []ParseWarning      `json:"warnings"`
}

// ParseCSV parses CSV bytes into a slice of maps (header -> value per row).
// It handles mismatched column counts (pad/truncate), BOM-prefixed files,
// and Latin-1 fallback for legacy exports.
func ParseCSV(data []byte) (*ParseResult, error) {
	decoded := decodeToUTF8(data)

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Column counts vary in real-world exports; padding and truncation are
	// handled below rather than by the csv package.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	headerCount := len(headers)
	var records []map[string]string
	var warnings []ParseWarning
	rowNum := 1 // header is row 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			warnings = append(warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		if len(row) != headerCount {
			if len(row) < headerCount {
				warnings = append(warnings, ParseWarning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), headerCount),
				})
				padded := make([]string, headerCount)
				copy(padded, row)
				row = padded
			} else {
				warnings = append(warnings, ParseWarning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
				})
				row = row[:headerCount]
			}
		}

		record := make(map[string]string, headerCount)
		for i, h := range headers {
			record[h] = strings.TrimSpace(row[i])
		}
		records = append(records, record)
	}

	return &ParseResult{
		Records:  records,
		Warnings: warnings,
	}, nil
}
