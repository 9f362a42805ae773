// Package corpus хранит табличный корпус комментариев (CSV) в памяти.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ErrMissingColumn - в таблице нет ни одной из запрошенных колонок
var ErrMissingColumn = errors.New("missing column")

// Стандартные колонки корпуса
const (
	ColGroup       = "Commentary Group"
	ColVerseGroup  = "Verse Group"
	ColVerse       = "Verse Text (Arabic)"
	ColTranslation = "Latest (English) Translation"
	ColCommentary  = "English Commentary"
	ColThemeText   = "ThemeText"
	ColTitle       = "Detected Title"
	ColChunk       = "TEXT CHUNK"
	ColEmbedding   = "Embedding"
)

// Table - CSV с заголовком; все ячейки строки
type Table struct {
	Header  []string
	Records [][]string
	index   map[string]int
}

// New создаёт пустую таблицу с заданными колонками
func New(header ...string) *Table {
	t := &Table{Header: slices.Clone(header)}
	t.reindex()
	return t
}

// Read читает CSV; первая строка - заголовок, имена колонок обрезаются
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("read csv: no header row")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := New(header...)
	for _, row := range rows[1:] {
		t.Append(row)
	}
	return t, nil
}

// ReadFile читает CSV с диска
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write пишет таблицу в CSV
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteFile сохраняет таблицу в CSV на диск
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
}

// Len - количество строк без заголовка
func (t *Table) Len() int {
	return len(t.Records)
}

// Has сообщает, есть ли колонка
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Resolve возвращает первую существующую колонку из кандидатов
func (t *Table) Resolve(candidates ...string) (string, error) {
	for _, c := range candidates {
		if t.Has(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: none of %q", ErrMissingColumn, candidates)
}

// EnsureColumn добавляет пустую колонку, если её ещё нет
func (t *Table) EnsureColumn(column string) {
	if t.Has(column) {
		return
	}
	t.Header = append(t.Header, column)
	t.index[column] = len(t.Header) - 1
	for i := range t.Records {
		t.Records[i] = append(t.Records[i], "")
	}
}

// Append добавляет строку, выравнивая её по ширине заголовка
func (t *Table) Append(row []string) {
	rec := make([]string, len(t.Header))
	copy(rec, row)
	t.Records = append(t.Records, rec)
}

// Get возвращает значение ячейки; отсутствующая колонка даёт ""
func (t *Table) Get(row int, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(t.Records[row]) {
		return ""
	}
	return t.Records[row][i]
}

// Set записывает значение, создавая колонку при необходимости
func (t *Table) Set(row int, column, value string) {
	t.EnsureColumn(column)
	t.Records[row][t.index[column]] = value
}

// Row возвращает строку как map колонка -> значение
func (t *Table) Row(row int) map[string]string {
	out := make(map[string]string, len(t.Header))
	for _, h := range t.Header {
		out[h] = t.Get(row, h)
	}
	return out
}
