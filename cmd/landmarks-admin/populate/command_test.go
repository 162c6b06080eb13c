package populate_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/opst/landmarks/cmd/landmarks-admin/populate"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/opst/landmarks/pkg/db/mocks"
	"github.com/opst/landmarks/pkg/utils/pointer"
)

var jpeg = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")

type fakeStore struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func (s *fakeStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[key] = b
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) URL(key string) string { return "/media/" + key }

var samples = []populate.Sample{
	{
		Title: "Eiffel Tower", Category: kdb.Historical, Description: "tower",
		Latitude: "48.8584", Longitude: "2.2945", Country: "France",
		ImageURL: "https://example.com/eiffel.jpeg",
	},
	{
		Title: "Grand Canyon", Category: kdb.Natural, Description: "canyon",
		Latitude: "36.0544", Longitude: "-112.1401", Country: "United States",
		ImageURL: "https://example.com/canyon.jpeg",
	},
}

func newDB(purged ...kdb.Landmark) *mocks.LandmarkInterface {
	dbl := mocks.NewLandmarkInterface()
	dbl.Impl.Purge = func(context.Context) ([]kdb.Landmark, error) { return purged, nil }
	id := int64(0)
	dbl.Impl.Create = func(_ context.Context, owner *int64, patch kdb.LandmarkPatch) (kdb.Landmark, error) {
		id += 1
		l := patch.Apply(kdb.Landmark{Id: id})
		l.Owner = owner
		return l, nil
	}
	return dbl
}

func TestPopulate(t *testing.T) {
	t.Run("it replaces landmarks with samples and their images", func(t *testing.T) {
		dbl := newDB(
			kdb.Landmark{Id: 1, CoverImage: pointer.Ref("landmarks/old.jpg")},
			kdb.Landmark{Id: 2},
		)
		store := &fakeStore{}
		downloaded := []string{}
		dl := func(_ context.Context, url string) ([]byte, error) {
			downloaded = append(downloaded, url)
			return jpeg, nil
		}
		buf := new(bytes.Buffer)

		created, err := populate.Populate(context.Background(), log.New(buf, "", 0), dbl, store, dl, samples)
		if err != nil {
			t.Fatal(err)
		}

		if dbl.Calls.Purge.Times() != 1 {
			t.Errorf("Purge is called %d times", dbl.Calls.Purge.Times())
		}
		if len(store.deleted) != 1 || store.deleted[0] != "landmarks/old.jpg" {
			t.Errorf("deleted images: %v", store.deleted)
		}
		if len(downloaded) != 2 {
			t.Errorf("downloaded: %v", downloaded)
		}
		if len(created) != 2 {
			t.Fatalf("created: %d landmarks", len(created))
		}
		for i, key := range []string{"landmarks/eiffel_tower.jpg", "landmarks/grand_canyon.jpg"} {
			if !bytes.Equal(store.saved[key], jpeg) {
				t.Errorf("image %s is not saved", key)
			}
			if c := created[i]; c.CoverImage == nil || *c.CoverImage != key {
				t.Errorf("cover image of %s: %v", *c.Title, c.CoverImage)
			}
			if o := dbl.Calls.Create[i].Owner; o != nil {
				t.Errorf("owner is set: %d", *o)
			}
		}
		if !strings.Contains(buf.String(), `Successfully created landmark "Eiffel Tower" with image`) {
			t.Errorf("log: %s", buf.String())
		}
	})

	t.Run("when download fails, the landmark is created without image", func(t *testing.T) {
		dbl := newDB()
		store := &fakeStore{}
		dl := func(_ context.Context, url string) ([]byte, error) {
			if strings.Contains(url, "canyon") {
				return nil, errors.New("fake error")
			}
			return jpeg, nil
		}
		buf := new(bytes.Buffer)

		created, err := populate.Populate(context.Background(), log.New(buf, "", 0), dbl, store, dl, samples)
		if err != nil {
			t.Fatal(err)
		}
		if len(created) != 2 {
			t.Fatalf("created: %d landmarks", len(created))
		}
		if created[1].CoverImage != nil {
			t.Errorf("cover image: %s", *created[1].CoverImage)
		}
		if _, ok := store.saved["landmarks/grand_canyon.jpg"]; ok {
			t.Error("image is saved")
		}
		if !strings.Contains(buf.String(), `Created landmark "Grand Canyon" but failed to download image`) {
			t.Errorf("log: %s", buf.String())
		}
	})

	t.Run("without downloader, images are skipped", func(t *testing.T) {
		dbl := newDB()
		store := &fakeStore{}

		created, err := populate.Populate(
			context.Background(), log.New(io.Discard, "", 0), dbl, store, nil, samples,
		)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range created {
			if c.CoverImage != nil {
				t.Errorf("cover image: %s", *c.CoverImage)
			}
		}
		if len(store.saved) != 0 {
			t.Errorf("saved: %v", store.saved)
		}
	})

	t.Run("when create fails, the stored image is removed", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		dbl := newDB()
		dbl.Impl.Create = func(context.Context, *int64, kdb.LandmarkPatch) (kdb.Landmark, error) {
			return kdb.Landmark{}, expectedErr
		}
		store := &fakeStore{}
		dl := func(context.Context, string) ([]byte, error) { return jpeg, nil }

		_, err := populate.Populate(
			context.Background(), log.New(io.Discard, "", 0), dbl, store, dl, samples,
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("err = %v", err)
		}
		if len(store.deleted) != 1 || store.deleted[0] != "landmarks/eiffel_tower.jpg" {
			t.Errorf("deleted: %v", store.deleted)
		}
		if dbl.Calls.Create.Times() != 1 {
			t.Errorf("Create is called %d times", dbl.Calls.Create.Times())
		}
	})

	t.Run("when purge fails, nothing is created", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		dbl := newDB()
		dbl.Impl.Purge = func(context.Context) ([]kdb.Landmark, error) { return nil, expectedErr }

		_, err := populate.Populate(
			context.Background(), log.New(io.Discard, "", 0), dbl, &fakeStore{}, nil, samples,
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("err = %v", err)
		}
		if dbl.Calls.Create.Times() != 0 {
			t.Errorf("Create is called %d times", dbl.Calls.Create.Times())
		}
	})
}

func TestSamples(t *testing.T) {
	if len(populate.Samples) != 10 {
		t.Errorf("samples: %d", len(populate.Samples))
	}
	for _, s := range populate.Samples {
		p := s.Patch()
		if p.Latitude.Value == nil || p.Longitude.Value == nil {
			t.Errorf("%s: coordinates are not set", s.Title)
		}
		if _, ok := kdb.AsCategory(s.Category.String()); !ok {
			t.Errorf("%s: category %s is not canonical", s.Title, s.Category)
		}
	}
}
