package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"m365-admin-service/internal/domain"
)

// Table представляет загруженный табличный файл желаемого состояния:
// строка заголовков и строки данных. Заголовки обрезаются от пробелов,
// поиск колонок нечувствителен к регистру.
type Table struct {
	headers []string
	rows    [][]string
}

// ReadFile загружает файл .xlsx или .csv в таблицу.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return newTable(records), nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	// Берется первый лист с данными
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		if len(rows) > 0 {
			return newTable(rows), nil
		}
	}

	return newTable(nil), nil
}

func newTable(records [][]string) *Table {
	t := &Table{}

	if len(records) == 0 {
		return t
	}

	for _, h := range records[0] {
		t.headers = append(t.headers, strings.TrimSpace(h))
	}

	for _, row := range records[1:] {
		if emptyRow(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}

	return t
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Empty сообщает, есть ли в таблице строки данных.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// column возвращает индекс первой колонки, чей заголовок совпадает
// с одним из псевдонимов без учета регистра.
func (t *Table) column(aliases ...string) (int, bool) {
	for _, alias := range aliases {
		for i, h := range t.headers {
			if strings.EqualFold(h, alias) {
				return i, true
			}
		}
	}
	return 0, false
}

// requireColumns находит все перечисленные наборы псевдонимов либо
// возвращает ErrMissingColumns с именами недостающих.
func (t *Table) requireColumns(fields map[string][]string) (map[string]int, error) {
	found := make(map[string]int, len(fields))
	var missing []string

	for field, aliases := range fields {
		idx, ok := t.column(aliases...)
		if !ok {
			missing = append(missing, field)
			continue
		}
		found[field] = idx
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	return found, nil
}

// cell возвращает обрезанное значение ячейки; выход за границы строки
// означает пустую ячейку.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
