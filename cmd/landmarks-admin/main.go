package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/opst/landmarks/cmd/landmarks-admin/assign"
	"github.com/opst/landmarks/cmd/landmarks-admin/common"
	"github.com/opst/landmarks/cmd/landmarks-admin/createtest"
	"github.com/opst/landmarks/cmd/landmarks-admin/populate"
	"github.com/opst/landmarks/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := log.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	assignCmd := try.To(assign.New()).OrFatal(logger)
	createTest := try.To(createtest.New()).OrFatal(logger)
	populateCmd := try.To(populate.New()).OrFatal(logger)

	admin := try.To(
		flarc.NewCommandGroup(
			"Landmarks administration.",
			common.CommonFlags{EnvFile: ".env"},
			flarc.WithSubcommand("assign", assignCmd),
			flarc.WithSubcommand("create-test", createTest),
			flarc.WithSubcommand("populate", populateCmd),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, admin, flarc.WithHelp(true)))
}
