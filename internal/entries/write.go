package entries

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"qrsite/internal/builderr"
	"qrsite/internal/fileutil"
)

// Write saves list with the canonical header. The format follows the
// extension like Load: .xlsx becomes a workbook, .csv a semicolon separated
// file with a byte order mark so spreadsheet programs detect UTF-8.
func Write(path string, list []Entry) error {
	rows := make([][]string, 0, len(list)+1)
	rows = append(rows, Header())
	for _, e := range list {
		rows = append(rows, []string{e.ID, e.Image, e.Date, e.Description, e.Link})
	}
	if err := fileutil.EnsureParent(path); err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return writeWorkbook(path, rows)
	case ".csv":
		return writeDelimited(path, rows)
	default:
		return builderr.Configuration("output", "unsupported spreadsheet format %q (use .xlsx or .csv)", ext)
	}
}

func writeWorkbook(path string, rows [][]string) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := book.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeDelimited(path string, rows [][]string) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
