package entries

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"qrsite/internal/builderr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the spreadsheet at path. The format follows the extension:
// .xlsx is read as a workbook, .csv, .tsv and .txt as delimited text.
func Load(path string) ([]Entry, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	case ".csv", ".tsv", ".txt":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read spreadsheet: %w", err)
		}
		rows, err = readDelimited(data)
	default:
		return nil, builderr.Configuration("paths.spreadsheet", "unsupported spreadsheet format %q (use .xlsx or .csv)", ext)
	}
	if err != nil {
		return nil, err
	}
	return FromRows(path, rows)
}

// Parse reads delimited text from r. source names the input in errors.
func Parse(r io.Reader, source string) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	rows, err := readDelimited(data)
	if err != nil {
		return nil, err
	}
	return FromRows(source, rows)
}

// FromRows validates raw spreadsheet rows, the first of which is the header.
func FromRows(source string, rows [][]string) ([]Entry, error) {
	if len(rows) == 0 {
		return nil, &builderr.MissingColumnError{Path: source, Columns: []string{columnNames[fieldID], columnNames[fieldImage]}}
	}
	l, missing := mapHeader(rows[0])
	if len(missing) > 0 {
		return nil, &builderr.MissingColumnError{Path: source, Columns: missing}
	}

	seen := make(map[string]int, len(rows))
	out := make([]Entry, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		rowNum := i + 2
		if blank(raw) {
			continue
		}
		entry := Entry{
			ID:          strings.TrimSpace(l.value(raw, fieldID)),
			Image:       strings.TrimSpace(l.value(raw, fieldImage)),
			Date:        strings.TrimSpace(l.value(raw, fieldDate)),
			Description: strings.TrimSpace(l.value(raw, fieldDescription)),
			Link:        strings.TrimSpace(l.value(raw, fieldLink)),
			Row:         rowNum,
		}
		if entry.ID == "" {
			return nil, &builderr.InvalidRowError{Row: rowNum, Reason: "missing id"}
		}
		if entry.Image == "" {
			return nil, &builderr.InvalidRowError{Row: rowNum, ID: entry.ID, Reason: "missing image filename"}
		}
		if reason := checkID(entry.ID); reason != "" {
			return nil, &builderr.InvalidRowError{Row: rowNum, ID: entry.ID, Reason: reason}
		}
		if first, dup := seen[entry.ID]; dup {
			return nil, &builderr.InvalidRowError{Row: rowNum, ID: entry.ID, Reason: fmt.Sprintf("duplicate id (first used in row %d)", first)}
		}
		seen[entry.ID] = rowNum
		out = append(out, entry)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readWorkbook(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	l, _ := mapHeader(rows[0])
	if l[fieldDate] < 0 {
		return rows, nil
	}
	raw, err := book.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	props, err := book.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("read workbook properties: %w", err)
	}
	date1904 := props.Date1904 != nil && *props.Date1904
	col := l[fieldDate]
	for i := 1; i < len(rows) && i < len(raw); i++ {
		if col >= len(rows[i]) || col >= len(raw[i]) {
			continue
		}
		if value, ok := serialDate(rows[i][col], raw[i][col], date1904); ok {
			rows[i][col] = value
		}
	}
	return rows, nil
}

// serialDate turns a date-formatted numeric cell back into an ISO date.
// Excel stores dates as day serials and only the cell's number format marks
// them as dates, so a cell counts as a date when its displayed text differs
// from its raw number. Plain numbers such as a year stay untouched.
func serialDate(shown, raw string, date1904 bool) (string, bool) {
	if shown == raw {
		return "", false
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return "", false
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly), true
	}
	return t.Format(time.DateTime), true
}

func readDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// detectDelimiter picks the most frequent of ';', ',' and tab in the header
// line. Semicolon wins ties since it is what spreadsheet exports in German
// locales produce.
func detectDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	best, bestCount := ';', bytes.Count(line, []byte(";"))
	for _, candidate := range []rune{',', '\t'} {
		if n := bytes.Count(line, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}
