package mapping

// RawRowData represents a single data row as header→cell string pairs
type RawRowData map[string]string

// Table represents one rectangular table extracted from a worksheet.
// Every row carries exactly the header's key set; the scanner right-pads
// ragged rows before the table reaches the mapper.
type Table struct {
	SheetName string
	Header    []string
	Rows      []RawRowData
}

// ColumnValues returns the values of one column in row order.
func (t *Table) ColumnValues(header string) []string {
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[header])
	}
	return values
}
