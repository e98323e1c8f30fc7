package db

import (
	"fmt"
	"strings"
)

// Assignments accumulates "column = $n" fragments for a partial UPDATE.
type Assignments struct {
	sets []string
	args []interface{}
}

// Set appends column = value unconditionally.
func (a *Assignments) Set(column string, value interface{}) {
	a.args = append(a.args, value)
	a.sets = append(a.sets, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

// SetRaw appends a fragment with no bound argument, e.g. "updated_at = NOW()".
func (a *Assignments) SetRaw(fragment string) {
	a.sets = append(a.sets, fragment)
}

// Optional appends column = *v when v is not nil.
func Optional[T any](a *Assignments, column string, v *T) {
	if v != nil {
		a.Set(column, *v)
	}
}

// Len reports how many assignments were added.
func (a *Assignments) Len() int {
	return len(a.sets)
}

// Clause is the comma separated SET list.
func (a *Assignments) Clause() string {
	return strings.Join(a.sets, ", ")
}

// Arg appends a trailing argument (typically for WHERE) and returns its placeholder.
func (a *Assignments) Arg(v interface{}) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

// Args returns the bound arguments in placeholder order.
func (a *Assignments) Args() []interface{} {
	return a.args
}
