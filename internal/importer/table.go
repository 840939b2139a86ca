package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// CSVParser reads a table exported as CSV, one record per table row.
// Records may differ in width; page-break artifacts often do.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads every record of the CSV.
func (p *CSVParser) Parse(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading table CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records, nil
}

// JSONParser reads a table exported as a JSON array of rows, where each row
// is an array of strings and null marks an absent cell.
type JSONParser struct{}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse decodes the table and replaces null cells with "".
func (p *JSONParser) Parse(r io.Reader) ([][]string, error) {
	var table [][]*string
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("decoding table JSON: %w", err)
	}
	if len(table) == 0 {
		return nil, nil
	}

	rows := make([][]string, len(table))
	for i, cells := range table {
		row := make([]string, len(cells))
		for j, c := range cells {
			if c != nil {
				row[j] = *c
			}
		}
		rows[i] = row
	}
	return rows, nil
}
