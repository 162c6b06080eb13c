package db

import "strings"

// Category is a canonical category of landmarks.
//
// The category column accepts any string (for records migrated from older systems),
// but API treats values in Categories as canonical.
type Category string

const (
	Religious  Category = "RELIGIOUS"
	Historical Category = "HISTORICAL"
	Natural    Category = "NATURAL"
	Cultural   Category = "CULTURAL"
	Other      Category = "OTHER"
)

// Categories in display order.
var Categories = []Category{Religious, Historical, Natural, Cultural, Other}

func (c Category) String() string {
	return string(c)
}

// Label is human readable name of the category.
func (c Category) Label() string {
	switch c {
	case Religious:
		return "Religious Tourism"
	case Historical:
		return "Historical"
	case Natural:
		return "Natural"
	case Cultural:
		return "Cultural"
	case Other:
		return "Other"
	default:
		return string(c)
	}
}

// AsCategory finds the canonical category matching s, case-insensitively.
//
// The second return value is false when s is not a canonical category.
func AsCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return Category(s), false
}
