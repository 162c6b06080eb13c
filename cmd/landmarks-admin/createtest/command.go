package createtest

import (
	"context"
	"log"

	"github.com/opst/landmarks/cmd/landmarks-admin/common"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Create a landmark for development.",
		struct{}{},
		flarc.Args{},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	deps common.Deps,
	_ flarc.Commandline[struct{}],
	_ []any,
) error {
	_, err := CreateTest(ctx, logger, deps.Landmarks)
	return err
}

// CreateTest creates "Test Landmark" without owner.
func CreateTest(ctx context.Context, logger *log.Logger, dbl kdb.LandmarkInterface) (kdb.Landmark, error) {
	l, err := dbl.Create(ctx, nil, kdb.LandmarkPatch{
		Title:       kdb.Assign("Test Landmark"),
		Category:    kdb.Assign(kdb.Historical.String()),
		Description: kdb.Assign("This is a test landmark for development purposes."),
		Latitude:    kdb.Assign(kdb.MustParseCoordinate("37.7749")),
		Longitude:   kdb.Assign(kdb.MustParseCoordinate("-122.4194")),
	})
	if err != nil {
		return kdb.Landmark{}, err
	}
	logger.Printf("Successfully created test landmark %q (id: %d)", "Test Landmark", l.Id)
	return l, nil
}
