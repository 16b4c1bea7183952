package core

import "strings"

// DBOrdering sorts query results by one field.
type DBOrdering struct {
	Field     string
	Ascending bool
}

// ParseOrdering reads a comma separated list of fields, "-" prefixed for descending order (eg. "-name,id").
// Blank entries are skipped.
func ParseOrdering(s string) []DBOrdering {
	var orderings []DBOrdering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}

// String renders the ordering as an ORDER BY term.
func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
