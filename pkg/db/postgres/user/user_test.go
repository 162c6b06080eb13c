package user_test

import (
	"context"
	"errors"
	"testing"

	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/opst/landmarks/pkg/db/postgres/pool/testenv"
	kpguser "github.com/opst/landmarks/pkg/db/postgres/user"
	"github.com/opst/landmarks/pkg/utils/try"
)

func TestUser(t *testing.T) {
	poolBroaker := testenv.NewPoolBroaker(context.Background(), t)

	t.Run("registered user can be got by id and email", func(t *testing.T) {
		ctx := context.Background()
		testee := kpguser.New(poolBroaker.GetPool(ctx, t))

		registered := try.To(testee.Register(ctx, kdb.UserSpec{
			Email: "Alice@Example.com", Username: "alice", PasswordHash: "hash",
		})).OrFatal(t)

		byId := try.To(testee.Get(ctx, registered.Id)).OrFatal(t)
		if byId.Email != "Alice@Example.com" || byId.Username != "alice" || byId.PasswordHash != "hash" {
			t.Errorf("by id: %+v", byId)
		}

		byEmail := try.To(testee.GetByEmail(ctx, "alice@example.com")).OrFatal(t)
		if byEmail.Id != registered.Id {
			t.Errorf("by email: %+v", byEmail)
		}

		if _, err := testee.GetByEmail(ctx, "bob@example.com"); !errors.Is(err, kdb.ErrMissing) {
			t.Errorf("unknown email: %+v", err)
		}
		if _, err := testee.Get(ctx, registered.Id+1); !errors.Is(err, kdb.ErrMissing) {
			t.Errorf("unknown id: %+v", err)
		}
	})

	t.Run("duplicated email or username conflicts", func(t *testing.T) {
		ctx := context.Background()
		testee := kpguser.New(poolBroaker.GetPool(ctx, t))

		try.To(testee.Register(ctx, kdb.UserSpec{
			Email: "alice@example.com", Username: "alice", PasswordHash: "hash",
		})).OrFatal(t)

		_, err := testee.Register(ctx, kdb.UserSpec{
			Email: "ALICE@example.com", Username: "alice2", PasswordHash: "hash",
		})
		conflict := new(kdb.ConflictError)
		if !errors.As(err, &conflict) || conflict.Field != "email" {
			t.Errorf("email: %+v", err)
		}

		_, err = testee.Register(ctx, kdb.UserSpec{
			Email: "alice2@example.com", Username: "alice", PasswordHash: "hash",
		})
		if !errors.As(err, &conflict) || conflict.Field != "username" {
			t.Errorf("username: %+v", err)
		}
		if !errors.Is(err, kdb.ErrConflict) {
			t.Errorf("conflict is not ErrConflict: %+v", err)
		}

		users := try.To(testee.Find(ctx)).OrFatal(t)
		if len(users) != 1 {
			t.Errorf("users: %+v", users)
		}
	})
}
