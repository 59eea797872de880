package parsers

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	apperrors "ageing-reconciliation-service/pkg/errors"
	"ageing-reconciliation-service/pkg/logger"
)

// maxXLSRows bounds how many rows are read from a legacy .xls workbook.
const maxXLSRows = 65536

// ReadMatrix loads the first sheet of a workbook as a matrix of raw cell
// values. Supported formats are .xlsx, legacy .xls and .csv, decided by
// file extension.
func ReadMatrix(path string) ([][]interface{}, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	matrix := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		matrix[i] = cells
	}
	return matrix, nil
}

// ReadKeyedRows loads the first sheet of a workbook as keyed records: the
// first row supplies the headers, every following row becomes one record.
// Cells beyond the header width are dropped; missing trailing cells are
// simply absent from the record.
func ReadKeyedRows(path string) (*KeyedRows, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &KeyedRows{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	keyed := make([]map[string]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]interface{}, len(headers))
		for j, header := range headers {
			if header == "" || j >= len(row) {
				continue
			}
			if strings.TrimSpace(row[j]) == "" {
				continue
			}
			record[header] = row[j]
		}
		keyed = append(keyed, record)
	}

	return &KeyedRows{Headers: headers, Rows: keyed}, nil
}

// readRows dispatches on extension and returns raw string cells.
func readRows(path string) ([][]string, error) {
	log := logger.GetGlobalLogger().WithComponent("workbook_reader")
	log.WithField("file_path", path).Debug("Reading workbook")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSXRows(path)
	case ".xls":
		return readXLSRows(path)
	case ".csv":
		return readCSVRows(path)
	default:
		return nil, apperrors.FileError(apperrors.CodeUnsupportedFormat, path,
			fmt.Errorf("unsupported file extension %q", filepath.Ext(path)))
	}
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, wrapOpenError(path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}
	return rows, nil
}

func readXLSRows(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, wrapOpenError(path, err)
	}

	rows := wb.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, apperrors.FileError(apperrors.CodeFileCorrupted, path,
			fmt.Errorf("no readable sheet in workbook"))
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapOpenError(path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}
	return rows, nil
}

func wrapOpenError(path string, err error) error {
	if os.IsNotExist(err) {
		return apperrors.FileError(apperrors.CodeFileNotFound, path, err)
	}
	if os.IsPermission(err) {
		return apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}
	return apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
}
