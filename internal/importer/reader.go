// Package importer reads word lists from CSV and Excel files into import
// rows. Columns are english, japanese, category, difficulty; a header row
// starting with "english" is skipped.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"vocabtest-backend/internal/service"
)

const (
	colEnglish = iota
	colJapanese
	colCategory
	colDifficulty
)

// ReadFile picks the reader from the file extension.
func ReadFile(path string) ([]service.ImportRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open csv file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return readExcel(path)
	}
	return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}

// ReadCSV parses comma separated rows.
func ReadCSV(r io.Reader) ([]service.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, rec)
	}
	return toRows(records), nil
}

func readExcel(path string) ([]service.ImportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", sheets[0], err)
	}
	return toRows(records), nil
}

func toRows(records [][]string) []service.ImportRow {
	rows := make([]service.ImportRow, 0, len(records))
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, service.ImportRow{
			English:    cell(rec, colEnglish),
			Japanese:   cell(rec, colJapanese),
			Category:   cell(rec, colCategory),
			Difficulty: service.ParseDifficulty(cell(rec, colDifficulty)),
		})
	}
	return rows
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(rec[0]), "\ufeff"), "english")
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func cell(rec []string, idx int) string {
	if idx < len(rec) {
		return strings.TrimSpace(rec[idx])
	}
	return ""
}
