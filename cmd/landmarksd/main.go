package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"
	"github.com/opst/landmarks/pkg/auth"
	"github.com/opst/landmarks/pkg/buildtime"
	kcs "github.com/opst/landmarks/pkg/configs/server"
	kpg "github.com/opst/landmarks/pkg/db/postgres"
	"github.com/opst/landmarks/pkg/echoutil"
	"github.com/opst/landmarks/pkg/events"
	"github.com/opst/landmarks/pkg/images"
	"github.com/opst/landmarks/pkg/utils/filewatch"
)

//go:embed templates/*.html
var templatesFS embed.FS

func main() {
	configPath := flag.String("config-path", "", "path to config file (yaml)")
	envFile := flag.String("env-file", ".env", "path to .env file. It is ignored if missing.")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	pversion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *pversion {
		fmt.Println(buildtime.VersionString())
		return
	}
	log.Printf("landmarksd %s", buildtime.VersionString())

	if err := kcs.LoadEnv(*envFile); err != nil {
		log.Fatalf("can not read env file: %s", err)
	}
	conf, err := kcs.Load(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	if err := conf.RequireSecret(); err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = echoutil.HTTPErrorHandler(e)
	e.Use(echoutil.LogHandlerFunc)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := kpg.New(ctx, conf.DBURI, kpg.WithSchemaRepository(conf.SchemaRepository))
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()

	s := server{
		landmarks: db.Landmarks(),
		users:     db.Users(),
		events:    events.Null(),
		issuer: auth.NewIssuer(
			[]byte(conf.Auth.Secret),
			auth.WithLifetime(conf.Auth.AccessTokenLifetime, conf.Auth.RefreshTokenLifetime),
		),
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}

	store, err := images.Open(ctx, conf.Media)
	if err != nil {
		log.Fatalf("can not open image store: %s", err)
	}
	s.images = store
	if conf.Media.Backend == kcs.MediaLocal {
		s.mediaPrefix, s.mediaRoot = conf.Media.URLPrefix, conf.Media.Root
	}

	if len(conf.Events.Brokers) != 0 {
		s.events = events.Kafka(conf.Events.Brokers, conf.Events.Topic)
	}
	defer s.events.Close()

	register(e, s)
	log.Println("registered routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	// quit when config or schema is updated, to be restarted with them.
	watched := ctx
	if *configPath != "" {
		wctx, cancelWatch, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancelWatch()
		watched = wctx
	}
	sctx, cancelSchema := db.Schema().Context(watched)
	defer cancelSchema()
	if sctx.Err() != nil {
		log.Fatalf("database is not ready: %s", context.Cause(sctx))
	}
	context.AfterFunc(sctx, func() {
		e.Logger.Warnj(glog.JSON{"message": "shutting down", "reason": context.Cause(sctx).Error()})
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown: %s", err)
		}
	})

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		err = e.StartTLS(":"+conf.Port, cert, key)
	} else {
		err = e.Start(":" + conf.Port)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
