package landmark

import (
	"fmt"
	"strings"

	kdb "github.com/opst/landmarks/pkg/db"
)

// columns of "landmark" in the order of landmarkRow.scanTargets.
//
// Coordinates are read as text, not to lose their precision.
var columns = []string{
	`"id"`,
	`"title"`,
	`"category"`,
	`"description"`,
	`"cover_image"`,
	`"latitude"::text`,
	`"longitude"::text`,
	`"country"`,
	`"created_at"`,
	`"updated_at"`,
	`"owner"`,
}

// selectList returns the column list, qualified with the table alias when it is not empty.
func selectList(alias string) string {
	if alias == "" {
		return strings.Join(columns, ", ")
	}
	qualified := make([]string, len(columns))
	for i, c := range columns {
		qualified[i] = fmt.Sprintf(`"%s".%s`, alias, c)
	}
	return strings.Join(qualified, ", ")
}

// escapeLike escapes wildcards of LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}

type params struct {
	values []any
}

// add registers a parameter and returns its placeholder.
func (p *params) add(v any) string {
	p.values = append(p.values, v)
	return fmt.Sprintf("$%d", len(p.values))
}

// buildFind renders the query into SQL and its parameters.
func buildFind(q kdb.LandmarkQuery) (string, []any) {
	p := &params{}
	conds := []string{}

	if owner, ok := q.Scope.Owner(); ok {
		conds = append(conds, fmt.Sprintf(`"owner" = %s`, p.add(owner)))
	}
	if q.Category != "" {
		conds = append(conds, fmt.Sprintf(`lower("category") = lower(%s)`, p.add(q.Category)))
	}
	if q.CategoryExact != "" {
		conds = append(conds, fmt.Sprintf(`"category" = %s`, p.add(q.CategoryExact)))
	}
	if q.Title != "" {
		conds = append(conds, fmt.Sprintf(`"title" ilike %s`, p.add(contains(q.Title))))
	}
	if q.Description != "" {
		conds = append(conds, fmt.Sprintf(`"description" ilike %s`, p.add(contains(q.Description))))
	}
	for _, term := range q.Search {
		if term == "" {
			continue
		}
		ph := p.add(contains(term))
		conds = append(conds, fmt.Sprintf(
			`("title" ilike %[1]s or "description" ilike %[1]s or "category" ilike %[1]s)`, ph,
		))
	}

	sql := new(strings.Builder)
	fmt.Fprintf(sql, `select %s from "landmark"`, selectList(""))
	if len(conds) != 0 {
		fmt.Fprintf(sql, ` where %s`, strings.Join(conds, " and "))
	}
	sql.WriteString(` order by "created_at" desc, "id" desc`)

	return sql.String(), p.values
}

// coordinateParam converts a coordinate into a parameter for `$n::text::numeric`.
func coordinateParam(c *kdb.Coordinate) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

// buildUpdate renders assignments of the patch.
//
// updated_at is always refreshed, so the result is never empty.
func buildUpdate(patch kdb.LandmarkPatch, p *params) string {
	sets := []string{}
	text := func(column string, c kdb.Change[string]) {
		if c.Set {
			sets = append(sets, fmt.Sprintf(`"%s" = %s`, column, p.add(c.Value)))
		}
	}
	coord := func(column string, c kdb.Change[kdb.Coordinate]) {
		if c.Set {
			sets = append(sets, fmt.Sprintf(`"%s" = %s::text::numeric`, column, p.add(coordinateParam(c.Value))))
		}
	}

	text("title", patch.Title)
	text("category", patch.Category)
	text("description", patch.Description)
	text("cover_image", patch.CoverImage)
	coord("latitude", patch.Latitude)
	coord("longitude", patch.Longitude)
	text("country", patch.Country)
	sets = append(sets, `"updated_at" = now()`)

	return strings.Join(sets, ", ")
}
