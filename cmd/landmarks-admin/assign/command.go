package assign

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/opst/landmarks/cmd/landmarks-admin/common"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/youta-t/flarc"
)

const ARG_EMAIL = "EMAIL"

var ErrUnknownUser = errors.New("unknown user")

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Assign all landmarks without owner to the user.",
		struct{}{},
		flarc.Args{
			{
				Name:       ARG_EMAIL,
				Required:   true,
				Repeatable: false,
				Help:       "Email of the user to be the owner.",
			},
		},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	deps common.Deps,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	email := cl.Args()[ARG_EMAIL][0]
	_, err := Assign(ctx, logger, deps.Landmarks, email)
	return err
}

// Assign every landmark without owner to the user with the email.
//
// When the user is not found, nothing is changed.
//
// # Returns
//
// - int: number of assigned landmarks.
//
// - error: ErrUnknownUser if the user is not found.
func Assign(ctx context.Context, logger *log.Logger, dbl kdb.LandmarkInterface, email string) (int, error) {
	n, err := dbl.AssignUnowned(ctx, email)
	if errors.Is(err, kdb.ErrMissing) {
		return 0, fmt.Errorf("%w: user with email %s does not exist", ErrUnknownUser, email)
	} else if err != nil {
		return 0, err
	}

	if n == 0 {
		logger.Println("No unassigned landmarks found")
		return 0, nil
	}
	logger.Printf("Successfully assigned %d landmarks to user %s", n, email)
	return n, nil
}
