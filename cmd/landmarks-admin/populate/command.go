package populate

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/opst/landmarks/cmd/landmarks-admin/common"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/opst/landmarks/pkg/images"
	"github.com/youta-t/flarc"
)

type Flag struct {
	SkipImages bool          `flag:"skip-images" help:"do not download cover images"`
	Timeout    time.Duration `flag:"timeout" help:"timeout for each download"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Delete all landmarks, and create sample landmarks with cover images.",
		Flag{Timeout: 10 * time.Second},
		flarc.Args{},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	deps common.Deps,
	cl flarc.Commandline[Flag],
	_ []any,
) error {
	flags := cl.Flags()
	var dl Downloader
	if !flags.SkipImages {
		dl = HTTPDownloader(http.DefaultClient, flags.Timeout, 3, time.Second)
	}
	_, err := Populate(ctx, logger, deps.Landmarks, deps.Images, dl, Samples)
	return err
}

// Populate replaces all landmarks with samples.
//
// Cover images of samples are downloaded with dl and stored in store.
// When a download fails, the landmark is created without cover image.
// dl can be nil to skip downloading.
//
// # Returns
//
// - []kdb.Landmark: created landmarks.
//
// - error
func Populate(
	ctx context.Context,
	logger *log.Logger,
	dbl kdb.LandmarkInterface,
	store images.Store,
	dl Downloader,
	samples []Sample,
) ([]kdb.Landmark, error) {
	purged, err := dbl.Purge(ctx)
	if err != nil {
		return nil, err
	}
	logger.Printf("Deleted %d landmarks", len(purged))
	for _, l := range purged {
		if l.CoverImage == nil {
			continue
		}
		if err := store.Delete(ctx, *l.CoverImage); err != nil {
			logger.Printf("WARN: failed to delete image %s: %s", *l.CoverImage, err)
		}
	}

	created := make([]kdb.Landmark, 0, len(samples))
	for _, s := range samples {
		patch := s.Patch()

		key, ok := saveImage(ctx, logger, store, dl, s)
		if ok {
			patch.CoverImage = kdb.Assign(key)
		}

		l, err := dbl.Create(ctx, nil, patch)
		if err != nil {
			if ok {
				if derr := store.Delete(ctx, key); derr != nil {
					err = errors.Join(err, derr)
				}
			}
			return created, err
		}
		created = append(created, l)

		switch {
		case ok:
			logger.Printf("Successfully created landmark %q with image", s.Title)
		case dl == nil || s.ImageURL == "":
			logger.Printf("Successfully created landmark %q without image", s.Title)
		default:
			logger.Printf("WARN: Created landmark %q but failed to download image", s.Title)
		}
	}
	return created, nil
}

func saveImage(
	ctx context.Context, logger *log.Logger, store images.Store, dl Downloader, s Sample,
) (string, bool) {
	if dl == nil || s.ImageURL == "" {
		return "", false
	}
	body, err := dl(ctx, s.ImageURL)
	if err != nil {
		logger.Printf("WARN: failed to download %s: %s", s.ImageURL, err)
		return "", false
	}
	key := images.NamedKey(s.Title, ".jpg")
	if err := store.Save(
		ctx, key, bytes.NewReader(body), int64(len(body)), http.DetectContentType(body),
	); err != nil {
		logger.Printf("WARN: failed to save image %s: %s", key, err)
		return "", false
	}
	return key, true
}
