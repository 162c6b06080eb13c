// Package schema upgrades the database schema from a schema repository.
//
// A schema repository is a directory having subdirectories named with version numbers:
//
//	schema/postgres/
//	├── 1/
//	│   ├── 00_schema_version.sql
//	│   └── 10_landmarks.sql
//	└── 2/
//	    └── ...
//
// Versions newer than the one recorded in "schema_version" are applied in order,
// and .sql files in a version are executed in lexical order, all in one transaction.
package schema

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/opst/landmarks/pkg/db/postgres/pool"
	xe "github.com/opst/landmarks/pkg/errors"
)

type pgSchema struct {
	pool       kpool.Pool
	repository string
}

// New creates a schema upgrader.
//
// # Args
//
// - pool: connection pool to the database.
//
// - repository: path to the schema repository directory.
func New(pool kpool.Pool, repository string) *pgSchema {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	Version int
	Root    string
}

func (v version) apply(ctx context.Context, q kpool.Queryer) error {
	files := []string{}
	if err := filepath.WalkDir(v.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		files = append(files, path)
		return nil
	}); err != nil {
		return err
	}
	slices.Sort(files)

	for _, f := range files {
		query, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, string(query)); err != nil {
			return fmt.Errorf("schema version %d: %s: %w", v.Version, filepath.Base(f), err)
		}
	}
	return nil
}

func currentVersion(ctx context.Context, q kpool.Queryer) (int, error) {
	var v *int
	if err := q.QueryRow(
		ctx, `select max("version") from "schema_version"`,
	).Scan(&v); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable {
			return 0, nil
		}
		return -1, err
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.pool)
}

func (s *pgSchema) Upgrade(ctx context.Context) error {
	versions, err := s.versions()
	if err != nil {
		return xe.Wrap(err)
	}

	return kpool.InTx(ctx, s.pool, func(tx kpool.Tx) error {
		current, err := currentVersion(ctx, tx)
		if err != nil {
			return err
		}

		for _, v := range versions {
			if v.Version <= current {
				continue
			}
			if err := v.apply(ctx, tx); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
				return err
			}
			if _, err := tx.Exec(
				ctx, `insert into "schema_version" ("version") values ($1)`, v.Version,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// Context returns a context which is canceled when the schema repository gets
// a version newer than the database.
func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return cctx, func() {}
	}
	if err := w.Add(s.repository); err != nil {
		w.Close()
		cancel(err)
		return cctx, func() {}
	}

	check := func() {
		versions, err := s.versions()
		if err != nil {
			cancel(fmt.Errorf("failed to read schema repository: %w", err))
			return
		}
		current, err := s.Version(cctx)
		if err != nil {
			cancel(fmt.Errorf("failed to get current schema version: %w", err))
			return
		}
		if latest := latestOf(versions); current < latest {
			cancel(fmt.Errorf("schema is outdated: %d (in db) < %d (in repository)", current, latest))
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if filepath.Clean(s.repository) != filepath.Dir(ev.Name) {
					continue
				}
				check()
			}
		}
	}()

	check()
	return cctx, func() { cancel(nil) }
}

func latestOf(versions []version) int {
	latest := 0
	for _, v := range versions {
		latest = max(latest, v.Version)
	}
	return latest
}

// versions looks up the schema repository, sorted by version number.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := os.ReadDir(s.repository)
	if err != nil {
		return nil, err
	}

	versions := make([]version, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		versions = append(versions, version{
			Version: v,
			Root:    filepath.Join(s.repository, entry.Name()),
		})
	}
	slices.SortFunc(versions, func(a, b version) int { return cmp.Compare(a.Version, b.Version) })
	return versions, nil
}

// Null is a schema without repository.
//
// It cannot upgrade anything, and its Context never expires by itself.
func Null() *nullSchema {
	return &nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(context.Context) error {
	return errors.New("no schema repository available")
}

func (nullSchema) Version(context.Context) (int, error) {
	return -1, nil
}

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
