package landmark_test

import (
	"context"
	"errors"
	"testing"

	kdb "github.com/opst/landmarks/pkg/db"
	kpglandmark "github.com/opst/landmarks/pkg/db/postgres/landmark"
	kpool "github.com/opst/landmarks/pkg/db/postgres/pool"
	"github.com/opst/landmarks/pkg/db/postgres/pool/testenv"
	kpguser "github.com/opst/landmarks/pkg/db/postgres/user"
	"github.com/opst/landmarks/pkg/utils/pointer"
	"github.com/opst/landmarks/pkg/utils/try"
)

func givenUser(ctx context.Context, t *testing.T, pool kpool.Pool, email string) kdb.User {
	t.Helper()
	return try.To(kpguser.New(pool).Register(ctx, kdb.UserSpec{
		Email: email, Username: email, PasswordHash: "x",
	})).OrFatal(t)
}

func titles(ls []kdb.Landmark) []string {
	ts := make([]string, 0, len(ls))
	for _, l := range ls {
		ts = append(ts, pointer.SafeDeref(l.Title))
	}
	return ts
}

func eqTitles(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLandmark(t *testing.T) {
	poolBroaker := testenv.NewPoolBroaker(context.Background(), t)

	t.Run("created landmark can be got by its owner only", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroaker.GetPool(ctx, t)
		alice := givenUser(ctx, t, pool, "alice@example.com")
		bob := givenUser(ctx, t, pool, "bob@example.com")

		testee := kpglandmark.New(pool)
		created := try.To(testee.Create(ctx, &alice.Id, kdb.LandmarkPatch{
			Title:     kdb.Assign("Petra"),
			Category:  kdb.Assign("HISTORICAL"),
			Latitude:  kdb.Assign(kdb.MustParseCoordinate("30.3285")),
			Longitude: kdb.Assign(kdb.MustParseCoordinate("35.4444")),
			Country:   kdb.Assign("Jordan"),
		})).OrFatal(t)

		if created.Description != nil || created.CoverImage != nil {
			t.Errorf("untouched fields are not null: %+v", created)
		}
		if created.Latitude == nil || created.Latitude.String() != "30.328500" {
			t.Errorf("latitude: %v", created.Latitude)
		}
		if created.Owner == nil || *created.Owner != alice.Id {
			t.Errorf("owner: %v", created.Owner)
		}

		got := try.To(testee.Get(ctx, alice.Id, created.Id)).OrFatal(t)
		if pointer.SafeDeref(got.Title) != "Petra" {
			t.Errorf("title: %v", got.Title)
		}

		if _, err := testee.Get(ctx, bob.Id, created.Id); !errors.Is(err, kdb.ErrMissing) {
			t.Errorf("landmark of other user is visible: %+v", err)
		}
		if _, _, err := testee.Update(ctx, bob.Id, created.Id, kdb.LandmarkPatch{Title: kdb.Assign("x")}); !errors.Is(err, kdb.ErrMissing) {
			t.Errorf("landmark of other user is updated: %+v", err)
		}
		if _, err := testee.Delete(ctx, bob.Id, created.Id); !errors.Is(err, kdb.ErrMissing) {
			t.Errorf("landmark of other user is deleted: %+v", err)
		}
	})

	t.Run("Find returns newest first, filtered and scoped", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroaker.GetPool(ctx, t)
		alice := givenUser(ctx, t, pool, "alice@example.com")
		bob := givenUser(ctx, t, pool, "bob@example.com")

		testee := kpglandmark.New(pool)
		for _, l := range []struct {
			owner    int64
			title    string
			category string
		}{
			{alice.Id, "Grand Canyon", "NATURAL"},
			{alice.Id, "Eiffel Tower", "HISTORICAL"},
			{bob.Id, "Tokyo Tower", "HISTORICAL"},
			{alice.Id, "Northern Lights", "NATURAL"},
		} {
			try.To(testee.Create(ctx, &l.owner, kdb.LandmarkPatch{
				Title: kdb.Assign(l.title), Category: kdb.Assign(l.category),
			})).OrFatal(t)
		}

		all := try.To(testee.Find(ctx, kdb.LandmarkQuery{Scope: kdb.OwnedBy(alice.Id)})).OrFatal(t)
		if expected := []string{"Northern Lights", "Eiffel Tower", "Grand Canyon"}; !eqTitles(titles(all), expected) {
			t.Errorf("all: actual = %v, expected = %v", titles(all), expected)
		}

		natural := try.To(testee.Find(ctx, kdb.LandmarkQuery{
			Scope: kdb.OwnedBy(alice.Id), Category: "natural",
		})).OrFatal(t)
		if expected := []string{"Northern Lights", "Grand Canyon"}; !eqTitles(titles(natural), expected) {
			t.Errorf("natural: actual = %v, expected = %v", titles(natural), expected)
		}

		searched := try.To(testee.Find(ctx, kdb.LandmarkQuery{
			Scope: kdb.OwnedBy(alice.Id), Search: []string{"tower"},
		})).OrFatal(t)
		if expected := []string{"Eiffel Tower"}; !eqTitles(titles(searched), expected) {
			t.Errorf("searched: actual = %v, expected = %v", titles(searched), expected)
		}

		unscoped := try.To(testee.Find(ctx, kdb.LandmarkQuery{
			Scope: kdb.Unscoped(), Title: "tower",
		})).OrFatal(t)
		if expected := []string{"Tokyo Tower", "Eiffel Tower"}; !eqTitles(titles(unscoped), expected) {
			t.Errorf("unscoped: actual = %v, expected = %v", titles(unscoped), expected)
		}
	})

	t.Run("Update changes given fields only, and tells the replaced image", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroaker.GetPool(ctx, t)
		alice := givenUser(ctx, t, pool, "alice@example.com")

		testee := kpglandmark.New(pool)
		created := try.To(testee.Create(ctx, &alice.Id, kdb.LandmarkPatch{
			Title:      kdb.Assign("Petra"),
			CoverImage: kdb.Assign("landmarks/old.jpg"),
			Latitude:   kdb.Assign(kdb.MustParseCoordinate("30.3285")),
		})).OrFatal(t)

		updated, replaced, err := testee.Update(ctx, alice.Id, created.Id, kdb.LandmarkPatch{
			Description: kdb.Assign("Rose city"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if replaced != nil {
			t.Errorf("image is not replaced, but told: %s", *replaced)
		}
		if pointer.SafeDeref(updated.Title) != "Petra" || pointer.SafeDeref(updated.Description) != "Rose city" {
			t.Errorf("updated: %+v", updated)
		}
		if updated.Latitude == nil || *updated.Latitude != *created.Latitude {
			t.Errorf("latitude is changed: %v", updated.Latitude)
		}
		if updated.UpdatedAt.Before(created.UpdatedAt) {
			t.Errorf("updated_at is not refreshed: %s -> %s", created.UpdatedAt, updated.UpdatedAt)
		}

		_, replaced, err = testee.Update(ctx, alice.Id, created.Id, kdb.LandmarkPatch{
			CoverImage: kdb.Assign("landmarks/new.jpg"),
			Latitude:   kdb.Clear[kdb.Coordinate](),
		})
		if err != nil {
			t.Fatal(err)
		}
		if pointer.SafeDeref(replaced) != "landmarks/old.jpg" {
			t.Errorf("replaced: %v", replaced)
		}
	})

	t.Run("Delete returns the deleted landmark", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroaker.GetPool(ctx, t)
		alice := givenUser(ctx, t, pool, "alice@example.com")

		testee := kpglandmark.New(pool)
		created := try.To(testee.Create(ctx, &alice.Id, kdb.LandmarkPatch{
			Title: kdb.Assign("Petra"), CoverImage: kdb.Assign("landmarks/petra.jpg"),
		})).OrFatal(t)

		deleted := try.To(testee.Delete(ctx, alice.Id, created.Id)).OrFatal(t)
		if pointer.SafeDeref(deleted.CoverImage) != "landmarks/petra.jpg" {
			t.Errorf("deleted: %+v", deleted)
		}
		if _, err := testee.Get(ctx, alice.Id, created.Id); !errors.Is(err, kdb.ErrMissing) {
			t.Errorf("landmark is not deleted: %+v", err)
		}
	})

	t.Run("AssignUnowned gives unowned landmarks to the user", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroaker.GetPool(ctx, t)
		alice := givenUser(ctx, t, pool, "alice@example.com")
		bob := givenUser(ctx, t, pool, "bob@example.com")

		testee := kpglandmark.New(pool)
		try.To(testee.Create(ctx, nil, kdb.LandmarkPatch{Title: kdb.Assign("orphan 1")})).OrFatal(t)
		try.To(testee.Create(ctx, nil, kdb.LandmarkPatch{Title: kdb.Assign("orphan 2")})).OrFatal(t)
		try.To(testee.Create(ctx, &bob.Id, kdb.LandmarkPatch{Title: kdb.Assign("bob's")})).OrFatal(t)

		if n, err := testee.AssignUnowned(ctx, "nobody@example.com"); !errors.Is(err, kdb.ErrMissing) || n != 0 {
			t.Errorf("unknown email: (%d, %+v)", n, err)
		}
		if ls := try.To(testee.Find(ctx, kdb.LandmarkQuery{Scope: kdb.OwnedBy(alice.Id)})).OrFatal(t); len(ls) != 0 {
			t.Errorf("landmarks are assigned for unknown email: %v", titles(ls))
		}

		n := try.To(testee.AssignUnowned(ctx, "ALICE@example.com")).OrFatal(t)
		if n != 2 {
			t.Errorf("assigned = %d", n)
		}
		owned := try.To(testee.Find(ctx, kdb.LandmarkQuery{Scope: kdb.OwnedBy(alice.Id)})).OrFatal(t)
		if expected := []string{"orphan 2", "orphan 1"}; !eqTitles(titles(owned), expected) {
			t.Errorf("owned: actual = %v, expected = %v", titles(owned), expected)
		}

		if n := try.To(testee.AssignUnowned(ctx, "alice@example.com")).OrFatal(t); n != 0 {
			t.Errorf("assigned again: %d", n)
		}
	})

	t.Run("Purge deletes all landmarks", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroaker.GetPool(ctx, t)
		alice := givenUser(ctx, t, pool, "alice@example.com")

		testee := kpglandmark.New(pool)
		try.To(testee.Create(ctx, &alice.Id, kdb.LandmarkPatch{Title: kdb.Assign("a")})).OrFatal(t)
		try.To(testee.Create(ctx, nil, kdb.LandmarkPatch{Title: kdb.Assign("b")})).OrFatal(t)

		purged := try.To(testee.Purge(ctx)).OrFatal(t)
		if len(purged) != 2 {
			t.Errorf("purged: %v", titles(purged))
		}
		if rest := try.To(testee.Find(ctx, kdb.LandmarkQuery{Scope: kdb.Unscoped()})).OrFatal(t); len(rest) != 0 {
			t.Errorf("rest: %v", titles(rest))
		}
	})
}
