// Package query builds parameterized WHERE clauses shared by the SQL backends.
package query

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// Placeholder renders the n-th (1-based) bind parameter.
type Placeholder func(n int) string

// Dollar renders PostgreSQL placeholders ($1, $2, ...).
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// Question renders SQLite placeholders.
func Question(int) string { return "?" }

// Where accumulates AND-ed conditions and their arguments.
type Where struct {
	ph      Placeholder
	clauses []string
	args    []interface{}
}

func NewWhere(ph Placeholder) *Where {
	return &Where{ph: ph}
}

// Add appends a condition. Each %s in cond is replaced by the next placeholder.
func (w *Where) Add(cond string, args ...interface{}) *Where {
	phs := make([]interface{}, len(args))
	for i := range args {
		phs[i] = w.ph(len(w.args) + i + 1)
	}
	w.clauses = append(w.clauses, fmt.Sprintf(cond, phs...))
	w.args = append(w.args, args...)
	return w
}

// Scope pushes an actor filter down onto the owner columns.
func (w *Where) Scope(sc scope.Filter, userCol, departmentCol string) *Where {
	if sc.UserID != nil {
		w.Add(userCol+" = %s", *sc.UserID)
	}
	if sc.DepartmentID != nil {
		w.Add(departmentCol+" = %s", *sc.DepartmentID)
	}
	if sc.ExcludeUserID != nil {
		w.Add(userCol+" <> %s", *sc.ExcludeUserID)
	}
	return w
}

// SQL returns the clause body ("TRUE"-equivalent when empty).
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return "1 = 1"
	}
	return strings.Join(w.clauses, " AND ")
}

// Args returns the bound arguments in order.
func (w *Where) Args() []interface{} {
	return w.args
}

// Next returns the placeholder for an argument appended after the clause.
func (w *Where) Next(offset int) string {
	return w.ph(len(w.args) + offset)
}

// Order maps a sort key onto a whitelisted column and direction.
func Order(sortBy, sortOrder string, columns map[string]string, fallback string) string {
	col, ok := columns[sortBy]
	if !ok {
		col = fallback
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}
