package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tilemetry/domain/core"
	"tilemetry/domain/table"
)

// DataReader reads Excel and CSV files into a tabular result. The first row
// is taken as the header row; header cells become column identifiers.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadData reads the file into a TabularResult
func (r *DataReader) ReadData() (*table.TabularResult, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcel() (*table.TabularResult, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return buildResult(rows)
}

func (r *DataReader) readCSV() (*table.TabularResult, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are padded below
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return buildResult(rows)
}

// buildResult turns header + data rows into a TabularResult. Short rows are
// padded with empty cells so the row/column invariant holds.
func buildResult(rows [][]string) (*table.TabularResult, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := rows[0]
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		columns[i] = table.Column{ID: core.ColumnID(h), Label: h}
	}

	data := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]any, len(columns))
		for i := range columns {
			if i < len(row) {
				cells[i] = strings.TrimSpace(row[i])
			} else {
				cells[i] = ""
			}
		}
		data = append(data, cells)
	}

	return &table.TabularResult{Columns: columns, Rows: data}, nil
}
