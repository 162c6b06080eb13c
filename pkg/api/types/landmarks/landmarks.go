package landmarks

import (
	"encoding/json"
	"time"
)

// Detail is a landmark in responses.
//
// Absent values are null.
type Detail struct {
	Id          int64   `json:"id"`
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`

	// absolute URL of the cover image.
	CoverImage *string `json:"cover_image"`

	// decimal numbers with 6 fractional digits
	Latitude  *json.Number `json:"latitude"`
	Longitude *json.Number `json:"longitude"`

	Country   *string   `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Owner     *int64    `json:"owner"`
}

// Category is a canonical category.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
