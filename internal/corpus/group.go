package corpus

import (
	"slices"
	"strings"
)

// Group - строки таблицы с одинаковым ключом
type Group struct {
	Key  string
	Rows []int
}

// GroupBy группирует строки по значению колонки. Группы отсортированы
// по ключу, строки внутри группы идут в исходном порядке.
// Строки с пустым ключом пропускаются.
func (t *Table) GroupBy(column string) ([]Group, error) {
	if _, err := t.Resolve(column); err != nil {
		return nil, err
	}

	byKey := make(map[string]*Group)
	for i := range t.Records {
		key := strings.TrimSpace(t.Get(i, column))
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key}
			byKey[key] = g
		}
		g.Rows = append(g.Rows, i)
	}

	groups := make([]Group, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return strings.Compare(a.Key, b.Key)
	})
	return groups, nil
}

// Values возвращает непустые значения колонки по строкам группы
func (g Group) Values(t *Table, column string) []string {
	var out []string
	for _, row := range g.Rows {
		if v := strings.TrimSpace(t.Get(row, column)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Joined склеивает непустые значения колонки через sep
func (g Group) Joined(t *Table, column, sep string) string {
	return strings.Join(g.Values(t, column), sep)
}

// First возвращает первое непустое значение колонки или ""
func (g Group) First(t *Table, column string) string {
	values := g.Values(t, column)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// SetAll записывает значение во все строки группы
func (g Group) SetAll(t *Table, column, value string) {
	for _, row := range g.Rows {
		t.Set(row, column, value)
	}
}
