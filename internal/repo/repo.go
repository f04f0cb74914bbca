package repo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no row matches the requested identity.
var ErrNotFound = errors.New("not found")

// Assignment is one column = value pair of a partial update.
type Assignment struct {
	Column string
	Value  any
}

// FieldSet maps wire field names to the columns a partial update may touch.
type FieldSet map[string]string

// Column returns the column for a wire field name.
func (fs FieldSet) Column(field string) (string, bool) {
	c, ok := fs[field]
	return c, ok
}

type rowScanner interface {
	Scan(dest ...any) error
}

// buildUpdate renders UPDATE ... SET ... WHERE id = $n RETURNING cols.
// Assignments are sorted by column so the statement text is stable.
func buildUpdate(table, returning string, assigns []Assignment, id string) (string, []any) {
	sorted := make([]Assignment, len(assigns))
	copy(sorted, assigns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Column < sorted[j].Column })

	sets := make([]string, 0, len(sorted))
	args := make([]any, 0, len(sorted)+1)
	for i, a := range sorted {
		sets = append(sets, fmt.Sprintf("%s = $%d", a.Column, i+1))
		args = append(args, a.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(sets, ", "), len(args), returning)
	return query, args
}

// listQuery returns the list statement, filtered by location when
// locations is non-empty, newest first.
func listQuery(table, cols string, locations []string) (string, []any) {
	if len(locations) == 0 {
		return fmt.Sprintf(`SELECT %s FROM %s ORDER BY "when" DESC`, cols, table), nil
	}
	return fmt.Sprintf(`SELECT %s FROM %s WHERE location = ANY($1) ORDER BY "when" DESC`, cols, table),
		[]any{pq.Array(locations)}
}
