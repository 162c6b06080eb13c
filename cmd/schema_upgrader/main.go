package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"

	kcs "github.com/opst/landmarks/pkg/configs/server"
	"github.com/opst/landmarks/pkg/db/postgres"
	"github.com/opst/landmarks/pkg/utils/try"
	"github.com/youta-t/flarc"
)

type Flag struct {
	URI      string `flag:"uri" help:"Connection URI of the database. If set, host, port, user, pass and database are ignored."`
	Host     string `flag:"host" help:"The host of the database."`
	Port     int    `flag:"port" help:"The port of the database."`
	User     string `flag:"user" help:"The user of the database."`
	Password string `flag:"pass" help:"The password of the database."`
	Database string `flag:"database" help:"The name of the database."`

	Schema string `flag:"schema" help:"The path to the schema repository directory."`
}

func (f Flag) ConnectionURI() string {
	if f.URI != "" {
		return f.URI
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(f.User, f.Password),
		Host:   fmt.Sprintf("%s:%d", f.Host, f.Port),
		Path:   "/" + f.Database,
	}
	return u.String()
}

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	port := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		p, err := strconv.Atoi(sp)
		if err == nil {
			port = p
		}
	}
	schema := os.Getenv("LANDMARKS_SCHEMA")
	if schema == "" {
		schema = "./schema/postgres"
	}

	cmd := try.To(flarc.NewCommand(
		"database schema upgrader",
		Flag{
			URI:      os.Getenv(kcs.EnvDBURI),
			Host:     os.Getenv("DB_HOST"),
			Port:     port,
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_NAME"),
			Schema:   schema,
		},
		flarc.Args{},
		func(ctx context.Context, c flarc.Commandline[Flag], _ []any) error {
			flags := c.Flags()
			db, err := postgres.New(
				ctx, flags.ConnectionURI(),
				postgres.WithSchemaRepository(flags.Schema),
			)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Schema().Upgrade(ctx); err != nil {
				return err
			}
			v, err := db.Schema().Version(ctx)
			if err != nil {
				return err
			}
			logger.Printf("schema is upgraded to version %d", v)
			return nil
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}
