package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	kcs "github.com/opst/landmarks/pkg/configs/server"
	kdb "github.com/opst/landmarks/pkg/db"
	kpg "github.com/opst/landmarks/pkg/db/postgres"
	"github.com/opst/landmarks/pkg/images"
	"github.com/youta-t/flarc"
)

// CommonFlags are flags of the command group, shared by subcommands.
type CommonFlags struct {
	ConfigPath string `flag:"config-path" help:"path to config file of landmarksd (yaml)"`
	EnvFile    string `flag:"env-file" help:"path to .env file. It is ignored if missing."`
}

// Deps are resources which subcommands work with.
type Deps struct {
	Landmarks kdb.LandmarkInterface
	Images    images.Store
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	deps Deps,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask connects to the database and the image store configured by CommonFlags,
// and runs task with them.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var cf CommonFlags
		found := false
		rest := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				cf = v
			default:
				rest = append(rest, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		if err := kcs.LoadEnv(cf.EnvFile); err != nil {
			return fmt.Errorf("%w: failed to load env file (%s)", err, cf.EnvFile)
		}
		conf, err := kcs.Load(cf.ConfigPath)
		if err != nil {
			return fmt.Errorf("%w: failed to load config (%s)", err, cf.ConfigPath)
		}

		db, err := kpg.New(ctx, conf.DBURI)
		if err != nil {
			return fmt.Errorf("%w: failed to connect database", err)
		}
		defer db.Close()

		store, err := images.Open(ctx, conf.Media)
		if err != nil {
			return fmt.Errorf("%w: failed to open image store", err)
		}

		return task(ctx, logger, Deps{Landmarks: db.Landmarks(), Images: store}, cl, rest)
	}
}
