package excel

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"docgen/domain/core"
	"docgen/domain/mapping"

	"github.com/xuri/excelize/v2"
)

// Scanner walks workbook sheets and extracts rectangular tables
type Scanner struct{}

// NewScanner creates a workbook scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan opens the workbook at path and extracts every table from every sheet
func (s *Scanner) Scan(path string) ([]mapping.Table, error) {
	log.Printf("[Scanner] Opening workbook: %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, core.NewUnreadableWorkbookError(path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.NewUnreadableWorkbookError(path, err)
	}
	defer f.Close()

	return s.scanFile(path, f)
}

// ScanReader extracts tables from workbook bytes without touching the filesystem
func (s *Scanner) ScanReader(name string, r io.Reader) ([]mapping.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, core.NewUnreadableWorkbookError(name, err)
	}
	defer f.Close()

	return s.scanFile(name, f)
}

func (s *Scanner) scanFile(name string, f *excelize.File) ([]mapping.Table, error) {
	var tables []mapping.Table
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, core.NewUnreadableWorkbookError(name, fmt.Errorf("sheet %q: %w", sheetName, err))
		}

		sheetTables := scanSheet(sheetName, rows)
		log.Printf("[Scanner] Sheet %q: %d rows, %d tables", sheetName, len(rows), len(sheetTables))
		tables = append(tables, sheetTables...)
	}

	log.Printf("[Scanner] Workbook scanned: %d tables total", len(tables))
	return tables, nil
}

// SheetNames returns the worksheet names of the workbook at path.
func (s *Scanner) SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.NewUnreadableWorkbookError(path, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// scanSheet splits one sheet's rows into zero or more tables. A row opens a
// table when it has at least two non-empty cells and the row above is blank
// (or it is the top of the sheet); a fully blank row closes the current
// table. Sheets with no header candidates yield no tables.
func scanSheet(sheetName string, rows [][]string) []mapping.Table {
	var tables []mapping.Table
	var current *mapping.Table
	prevBlank := true

	for _, row := range rows {
		blank := isBlankRow(row)

		switch {
		case current == nil:
			if !blank && prevBlank && countNonEmpty(row) >= 2 {
				current = &mapping.Table{SheetName: sheetName, Header: headerNames(row)}
			}
		case blank:
			tables = append(tables, *current)
			current = nil
		default:
			current.Rows = append(current.Rows, dataRow(current.Header, row))
		}

		prevBlank = blank
	}

	if current != nil {
		tables = append(tables, *current)
	}
	return tables
}

// dataRow aligns one raw row to the table header, right-padding ragged rows
// with empty values and dropping cells beyond the header width.
func dataRow(header []string, row []string) mapping.RawRowData {
	data := make(mapping.RawRowData, len(header))
	for i, name := range header {
		if i < len(row) {
			data[name] = strings.TrimSpace(row[i])
		} else {
			data[name] = ""
		}
	}
	return data
}

// headerNames trims header cells and synthesizes names for blank or
// duplicate cells so every column keeps a distinct key.
func headerNames(row []string) []string {
	names := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		key := strings.ToLower(name)
		if n := seen[key]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[key]++
		names[i] = name
	}
	return names
}

func isBlankRow(row []string) bool {
	return countNonEmpty(row) == 0
}

func countNonEmpty(row []string) int {
	count := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			count++
		}
	}
	return count
}
