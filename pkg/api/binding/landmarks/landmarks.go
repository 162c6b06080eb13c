package landmarks

import (
	"encoding/json"

	apilandmarks "github.com/opst/landmarks/pkg/api/types/landmarks"
	kdb "github.com/opst/landmarks/pkg/db"
)

func composeCoordinate(c *kdb.Coordinate) *json.Number {
	if c == nil {
		return nil
	}
	n := json.Number(c.String())
	return &n
}

// ComposeDetail converts a landmark into its response.
//
// # Args
//
// - l: landmark
//
// - imageURL: converts the key of the cover image into its absolute URL.
func ComposeDetail(l kdb.Landmark, imageURL func(key string) string) apilandmarks.Detail {
	var cover *string
	if l.CoverImage != nil && *l.CoverImage != "" {
		u := imageURL(*l.CoverImage)
		cover = &u
	}
	return apilandmarks.Detail{
		Id:          l.Id,
		Title:       l.Title,
		Category:    l.Category,
		Description: l.Description,
		CoverImage:  cover,
		Latitude:    composeCoordinate(l.Latitude),
		Longitude:   composeCoordinate(l.Longitude),
		Country:     l.Country,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Owner:       l.Owner,
	}
}

func ComposeCategories(cs []kdb.Category) []apilandmarks.Category {
	ret := make([]apilandmarks.Category, 0, len(cs))
	for _, c := range cs {
		ret = append(ret, apilandmarks.Category{Value: c.String(), Label: c.Label()})
	}
	return ret
}
