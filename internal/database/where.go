package database

import (
	"fmt"
	"strings"
)

// WhereBuilder accumulates AND-ed conditions with positional ($n) args.
// Column expressions are trusted; only values are parameterized.
type WhereBuilder struct {
	conditions []string
	args       []interface{}
	argIndex   int
}

func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Equals adds "col = $n". Empty values are skipped.
func (wb *WhereBuilder) Equals(col, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	wb.add(fmt.Sprintf("%s = $%d", col, wb.argIndex), value)
	return wb
}

// Contains adds a case-sensitive substring match. LIKE metacharacters in
// value are escaped so they match literally. Empty values are skipped.
func (wb *WhereBuilder) Contains(col, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	wb.add(fmt.Sprintf("%s LIKE $%d", col, wb.argIndex), "%"+escapeLike(value)+"%")
	return wb
}

func (wb *WhereBuilder) add(cond string, arg interface{}) {
	wb.conditions = append(wb.conditions, cond)
	wb.args = append(wb.args, arg)
	wb.argIndex++
}

// Build returns the clause with a leading " WHERE ", or "" and nil args
// when no condition was added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// NextArgIndex returns the placeholder number the next argument will use.
func (wb *WhereBuilder) NextArgIndex() int {
	return wb.argIndex
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes value for LIKE with the default backslash escape.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// qualify returns alias."column".
func qualify(alias, column string) string {
	return alias + "." + quoteIdentifier(column)
}
