package admin

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// maxInt is the largest possible int value
const maxInt = int(^uint(0) >> 1)

// Condition is an additional SQL condition of a list query, e.g. "human_id = ?".
type Condition struct {
	SQL  string
	Args []any
}

// Filter restricts a list filter column to one value. A nil Value selects rows where the column
// is NULL.
type Filter struct {
	Column string
	Value  any
}

// ListQuery is a parsed request for a list page.
type ListQuery struct {
	Search     string
	Filters    []Filter
	Conditions []Condition
	OrderBy    string
	Descending bool
	// Limit is the maximum number of rows. Zero means no limit.
	Limit  int
	Offset int
}

// FilterKind tells how the value of a filter URL parameter is read.
type FilterKind int

const (
	TextFilter FilterKind = iota
	BoolFilter
	IdFilter
)

// FilterColumn is a column that a list can be filtered on.
type FilterColumn struct {
	Column string
	Kind   FilterKind
	// Choices restricts the values of a text filter. Empty means any text.
	Choices []string
}

// ParseValue converts the text of a filter URL parameter to the value compared in SQL. The text
// "null" selects rows where the column is NULL.
func (f FilterColumn) ParseValue(s string) (any, error) {
	if s == "null" {
		return nil, nil
	}
	switch f.Kind {
	case BoolFilter:
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	case IdFilter:
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return id, nil
		}
	default:
		if len(f.Choices) == 0 || slices.Contains(f.Choices, s) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("invalid %s parameter", f.Column)
}

// SelectSQL builds the SELECT statement and its arguments for a list page of the entity. The
// caller must make sure that q.OrderBy and all filter columns are part of the configuration.
// Conditions may use sqlx.In style slice arguments.
func (ma *ModelAdmin) SelectSQL(q ListQuery) (string, []any) {
	var where []string
	var args []any

	if q.Search != "" && len(ma.SearchFields) > 0 {
		var or []string
		pattern := "%" + escapeLike(q.Search) + "%"
		for _, field := range ma.SearchFields {
			or = append(or, field+" LIKE ?")
			args = append(args, pattern)
		}
		where = append(where, "("+strings.Join(or, " OR ")+")")
	}
	for _, filter := range q.Filters {
		if filter.Value == nil {
			where = append(where, filter.Column+" IS NULL")
			continue
		}
		where = append(where, filter.Column+" = ?")
		args = append(args, filter.Value)
	}
	for _, condition := range q.Conditions {
		where = append(where, "("+condition.SQL+")")
		args = append(args, condition.Args...)
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(ma.Table)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(ma.orderBy(q), ", "))

	limit := q.Limit
	if limit <= 0 {
		limit = maxInt
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)
	return sb.String(), args
}

// orderBy returns the ORDER BY terms for q, always ending with the id.
func (ma *ModelAdmin) orderBy(q ListQuery) []string {
	direction := " ASC"
	if q.Descending {
		direction = " DESC"
	}
	var terms []string
	if q.OrderBy != "" {
		terms = append(terms, q.OrderBy+direction)
		if q.OrderBy == "id" {
			return terms
		}
	} else {
		for _, column := range ma.Ordering {
			terms = append(terms, column+direction)
		}
	}
	return append(terms, "id"+direction)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes the wildcard characters of a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
