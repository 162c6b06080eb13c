package db

import (
	"context"
	"time"
)

type Landmark struct {
	Id          int64
	Title       *string
	Category    *string
	Description *string

	// key of the object in the image store. nil if no cover image.
	CoverImage *string

	Latitude  *Coordinate
	Longitude *Coordinate
	Country   *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// user id of the owner. nil for landmarks registered without owner.
	Owner *int64
}

// Change is a modification for a nullable field.
//
// When Set is false, the field should be left untouched.
// Otherwise, the field should be Value. Value == nil means "clear the field".
type Change[T any] struct {
	Set   bool
	Value *T
}

// Assign creates a Change setting v.
func Assign[T any](v T) Change[T] {
	return Change[T]{Set: true, Value: &v}
}

// Clear creates a Change clearing the field.
func Clear[T any]() Change[T] {
	return Change[T]{Set: true}
}

func (c Change[T]) apply(current *T) *T {
	if !c.Set {
		return current
	}
	return c.Value
}

// LandmarkPatch is a set of changes for a Landmark.
//
// For creation, untouched fields are stored as null.
type LandmarkPatch struct {
	Title       Change[string]
	Category    Change[string]
	Description Change[string]
	CoverImage  Change[string]
	Latitude    Change[Coordinate]
	Longitude   Change[Coordinate]
	Country     Change[string]
}

// Empty returns true if the patch changes nothing.
func (p LandmarkPatch) Empty() bool {
	return !p.Title.Set &&
		!p.Category.Set &&
		!p.Description.Set &&
		!p.CoverImage.Set &&
		!p.Latitude.Set &&
		!p.Longitude.Set &&
		!p.Country.Set
}

// Apply returns a copy of l with changes in the patch.
//
// Id, timestamps and owner are not modified.
func (p LandmarkPatch) Apply(l Landmark) Landmark {
	l.Title = p.Title.apply(l.Title)
	l.Category = p.Category.apply(l.Category)
	l.Description = p.Description.apply(l.Description)
	l.CoverImage = p.CoverImage.apply(l.CoverImage)
	l.Latitude = p.Latitude.apply(l.Latitude)
	l.Longitude = p.Longitude.apply(l.Longitude)
	l.Country = p.Country.apply(l.Country)
	return l
}

// Scope restricts landmarks to be queried.
type Scope struct {
	owner *int64
}

// OwnedBy is the scope of landmarks owned by the user.
func OwnedBy(userId int64) Scope {
	return Scope{owner: &userId}
}

// Unscoped is the scope of all landmarks, regardless of their owners.
//
// This exists for read-only public listing. Do not use it for API.
func Unscoped() Scope {
	return Scope{}
}

// Owner returns the user id of the scope.
//
// The second return value is false for the Unscoped scope.
func (s Scope) Owner() (int64, bool) {
	if s.owner == nil {
		return 0, false
	}
	return *s.owner, true
}

// LandmarkQuery is a condition to find landmarks.
//
// All conditions are combined with AND. Empty condition matches everything.
type LandmarkQuery struct {
	Scope Scope

	// case-insensitive exact match with category
	Category string

	// case-insensitive substring match with title
	Title string

	// case-insensitive substring match with description
	Description string

	// Each of search terms should match (case-insensitive substring) with
	// at least one of title, description or category.
	Search []string

	// case-sensitive exact match with category.
	//
	// This is for the public listing page.
	CategoryExact string
}

type LandmarkInterface interface {
	// Find landmarks matching the query.
	//
	// Result is ordered by created_at, newest first.
	Find(ctx context.Context, query LandmarkQuery) ([]Landmark, error)

	// Get the landmark owned by the owner.
	//
	// # Returns
	//
	// - Landmark
	//
	// - error: ErrMissing when the landmark is not found or is not owned by the owner.
	Get(ctx context.Context, owner int64, id int64) (Landmark, error)

	// Create a new landmark.
	//
	// # Args
	//
	// - ctx
	//
	// - owner: user id of the owner. nil for landmarks without owner.
	//
	// - patch: field values. Untouched fields are null.
	//
	// # Returns
	//
	// - Landmark: created landmark.
	//
	// - error
	Create(ctx context.Context, owner *int64, patch LandmarkPatch) (Landmark, error)

	// Update the landmark owned by the owner. updated_at is refreshed.
	//
	// # Returns
	//
	// - Landmark: updated landmark.
	//
	// - *string: key of the cover image replaced by this update.
	// nil if the cover image is not changed or there were no cover image.
	//
	// - error: ErrMissing when the landmark is not found or is not owned by the owner.
	Update(ctx context.Context, owner int64, id int64, patch LandmarkPatch) (Landmark, *string, error)

	// Delete the landmark owned by the owner.
	//
	// # Returns
	//
	// - Landmark: deleted landmark.
	//
	// - error: ErrMissing when the landmark is not found or is not owned by the owner.
	Delete(ctx context.Context, owner int64, id int64) (Landmark, error)

	// AssignUnowned sets the owner of every landmark without owner
	// to the user having the email.
	//
	// # Returns
	//
	// - int: the number of landmarks assigned.
	//
	// - error: ErrMissing when there are no user with the email. In that case, nothing is changed.
	AssignUnowned(ctx context.Context, email string) (int, error)

	// Purge deletes all landmarks.
	//
	// # Returns
	//
	// - []Landmark: deleted landmarks.
	//
	// - error
	Purge(ctx context.Context) ([]Landmark, error)
}
