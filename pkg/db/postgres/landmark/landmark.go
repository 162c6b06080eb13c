package landmark

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v4"
	kdb "github.com/opst/landmarks/pkg/db"
	kpgerr "github.com/opst/landmarks/pkg/db/postgres/errors"
	kpool "github.com/opst/landmarks/pkg/db/postgres/pool"
	xe "github.com/opst/landmarks/pkg/errors"
)

const table = "landmark"

type pgLandmark struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.LandmarkInterface {
	return &pgLandmark{pool: pool}
}

// landmarkRow is a record of "landmark" table, as scanned.
type landmarkRow struct {
	Id          int64
	Title       *string
	Category    *string
	Description *string
	CoverImage  *string
	Latitude    *string
	Longitude   *string
	Country     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Owner       *int64
}

func (r *landmarkRow) scanTargets() []any {
	return []any{
		&r.Id, &r.Title, &r.Category, &r.Description, &r.CoverImage,
		&r.Latitude, &r.Longitude, &r.Country,
		&r.CreatedAt, &r.UpdatedAt, &r.Owner,
	}
}

func parseCoordinate(s *string) (*kdb.Coordinate, error) {
	if s == nil {
		return nil, nil
	}
	c, err := kdb.ParseCoordinate(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r landmarkRow) toLandmark() (kdb.Landmark, error) {
	lat, err := parseCoordinate(r.Latitude)
	if err != nil {
		return kdb.Landmark{}, fmt.Errorf("landmark %d: latitude: %w", r.Id, err)
	}
	lon, err := parseCoordinate(r.Longitude)
	if err != nil {
		return kdb.Landmark{}, fmt.Errorf("landmark %d: longitude: %w", r.Id, err)
	}
	return kdb.Landmark{
		Id:          r.Id,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		CoverImage:  r.CoverImage,
		Latitude:    lat,
		Longitude:   lon,
		Country:     r.Country,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Owner:       r.Owner,
	}, nil
}

func scanOne(row pgx.Row, extra ...any) (kdb.Landmark, error) {
	r := landmarkRow{}
	if err := row.Scan(append(r.scanTargets(), extra...)...); err != nil {
		return kdb.Landmark{}, err
	}
	return r.toLandmark()
}

func scanAll(rows pgx.Rows) ([]kdb.Landmark, error) {
	defer rows.Close()

	landmarks := []kdb.Landmark{}
	for rows.Next() {
		l, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		landmarks = append(landmarks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return landmarks, nil
}

func missing(id int64) error {
	return kpgerr.Missing{Table: table, Identity: "id=" + strconv.FormatInt(id, 10)}
}

func (m *pgLandmark) Find(ctx context.Context, query kdb.LandmarkQuery) ([]kdb.Landmark, error) {
	sql, args := buildFind(query)
	rows, err := m.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ls, err := scanAll(rows)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return ls, nil
}

func (m *pgLandmark) Get(ctx context.Context, owner int64, id int64) (kdb.Landmark, error) {
	l, err := scanOne(m.pool.QueryRow(
		ctx,
		fmt.Sprintf(`select %s from "landmark" where "id" = $1 and "owner" = $2`, selectList("")),
		id, owner,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.Landmark{}, missing(id)
	} else if err != nil {
		return kdb.Landmark{}, xe.Wrap(err)
	}
	return l, nil
}

func (m *pgLandmark) Create(ctx context.Context, owner *int64, patch kdb.LandmarkPatch) (kdb.Landmark, error) {
	l, err := scanOne(m.pool.QueryRow(
		ctx,
		fmt.Sprintf(
			`
			insert into "landmark" (
				"title", "category", "description", "cover_image",
				"latitude", "longitude", "country", "owner"
			)
			values ($1, $2, $3, $4, $5::text::numeric, $6::text::numeric, $7, $8)
			returning %s
			`,
			selectList(""),
		),
		patch.Title.Value, patch.Category.Value, patch.Description.Value, patch.CoverImage.Value,
		coordinateParam(patch.Latitude.Value), coordinateParam(patch.Longitude.Value),
		patch.Country.Value, owner,
	))
	if err != nil {
		return kdb.Landmark{}, xe.Wrap(err)
	}
	return l, nil
}

func (m *pgLandmark) Update(ctx context.Context, owner int64, id int64, patch kdb.LandmarkPatch) (kdb.Landmark, *string, error) {
	p := &params{}
	idParam, ownerParam := p.add(id), p.add(owner)
	sets := buildUpdate(patch, p)

	var oldCover *string
	l, err := scanOne(
		m.pool.QueryRow(
			ctx,
			fmt.Sprintf(
				`
				with "old" as (
					select "id", "cover_image" from "landmark"
					where "id" = %s and "owner" = %s
					for update
				)
				update "landmark" as "l" set %s
				from "old"
				where "l"."id" = "old"."id"
				returning %s, "old"."cover_image"
				`,
				idParam, ownerParam, sets, selectList("l"),
			),
			p.values...,
		),
		&oldCover,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.Landmark{}, nil, missing(id)
	} else if err != nil {
		return kdb.Landmark{}, nil, xe.Wrap(err)
	}

	return l, replaced(oldCover, l.CoverImage), nil
}

// replaced returns the old cover image when it is not used anymore.
func replaced(old, current *string) *string {
	if old == nil {
		return nil
	}
	if current != nil && *current == *old {
		return nil
	}
	return old
}

func (m *pgLandmark) Delete(ctx context.Context, owner int64, id int64) (kdb.Landmark, error) {
	l, err := scanOne(m.pool.QueryRow(
		ctx,
		fmt.Sprintf(
			`delete from "landmark" where "id" = $1 and "owner" = $2 returning %s`,
			selectList(""),
		),
		id, owner,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.Landmark{}, missing(id)
	} else if err != nil {
		return kdb.Landmark{}, xe.Wrap(err)
	}
	return l, nil
}

func (m *pgLandmark) AssignUnowned(ctx context.Context, email string) (int, error) {
	assigned := 0
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		var userId int64
		if err := tx.QueryRow(
			ctx,
			`select "id" from "users" where lower("email") = lower($1) for share`,
			email,
		).Scan(&userId); errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{Table: "users", Identity: "email=" + email}
		} else if err != nil {
			return xe.Wrap(err)
		}

		tag, err := tx.Exec(
			ctx,
			`update "landmark" set "owner" = $1, "updated_at" = now() where "owner" is null`,
			userId,
		)
		if err != nil {
			return xe.Wrap(err)
		}
		assigned = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}

func (m *pgLandmark) Purge(ctx context.Context) ([]kdb.Landmark, error) {
	rows, err := m.pool.Query(
		ctx,
		fmt.Sprintf(`delete from "landmark" returning %s`, selectList("")),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ls, err := scanAll(rows)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return ls, nil
}
