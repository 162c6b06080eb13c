package user

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v4"
	kdb "github.com/opst/landmarks/pkg/db"
	kpgerr "github.com/opst/landmarks/pkg/db/postgres/errors"
	kpool "github.com/opst/landmarks/pkg/db/postgres/pool"
	xe "github.com/opst/landmarks/pkg/errors"
)

const table = "users"

const columns = `"id", "email", "username", "password_hash", "date_joined"`

type pgUser struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.UserInterface {
	return &pgUser{pool: pool}
}

func scan(row pgx.Row) (kdb.User, error) {
	u := kdb.User{}
	err := row.Scan(&u.Id, &u.Email, &u.Username, &u.PasswordHash, &u.DateJoined)
	return u, err
}

func (m *pgUser) Register(ctx context.Context, spec kdb.UserSpec) (kdb.User, error) {
	u, err := scan(m.pool.QueryRow(
		ctx,
		`insert into "users" ("email", "username", "password_hash") values ($1, $2, $3)
		returning `+columns,
		spec.Email, spec.Username, spec.PasswordHash,
	))
	if err != nil {
		err = kpgerr.AsConflict(err, table, map[string][2]string{
			"users_email_key":    {"email", spec.Email},
			"users_username_key": {"username", spec.Username},
		})
		return kdb.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) Find(ctx context.Context) ([]kdb.User, error) {
	rows, err := m.pool.Query(ctx, `select `+columns+` from "users" order by "id"`)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	users := []kdb.User{}
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return users, nil
}

func (m *pgUser) Get(ctx context.Context, id int64) (kdb.User, error) {
	u, err := scan(m.pool.QueryRow(
		ctx, `select `+columns+` from "users" where "id" = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.User{}, kpgerr.Missing{Table: table, Identity: "id=" + strconv.FormatInt(id, 10)}
	} else if err != nil {
		return kdb.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) GetByEmail(ctx context.Context, email string) (kdb.User, error) {
	u, err := scan(m.pool.QueryRow(
		ctx, `select `+columns+` from "users" where lower("email") = lower($1)`, email,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.User{}, kpgerr.Missing{Table: table, Identity: "email=" + email}
	} else if err != nil {
		return kdb.User{}, xe.Wrap(err)
	}
	return u, nil
}
