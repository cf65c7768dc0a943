package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, bio, location, website, created_at, updated_at`

type UsersRepo struct {
	base
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base{pool: pool, prom: prom}}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Bio,
		&u.Location,
		&u.Website,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			u.ID, u.Name, u.Email, u.PasswordHash, u.Bio, u.Location, u.Website, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if IsUniqueViolation(err) {
		return user.ErrDuplicateEmail
	}
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg any) (user.User, error) {
	var (
		u    user.User
		miss bool
	)

	err := r.observe(op, func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx, query, arg))
		if errors.Is(err, pgx.ErrNoRows) {
			// a miss is not a db error
			miss = true
			return nil
		}
		return err
	})

	if err != nil {
		return user.User{}, err
	}
	if miss {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetMany(ctx context.Context, ids []string) (map[string]user.User, error) {
	out := make(map[string]user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows pgx.Rows
	err := r.observe("users.get_many", func() error {
		var err error
		rows, err = r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}

	if err := rows.Err(); err != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues("users.get_many", "rows_err").Inc()
		}
		return nil, err
	}
	return out, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) error {
	var affected int64

	err := r.observe("users.update", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users
			 SET name = $2, email = $3, password_hash = $4, bio = $5, location = $6, website = $7, updated_at = $8
			 WHERE id = $1`,
			u.ID, u.Name, u.Email, u.PasswordHash, u.Bio, u.Location, u.Website, u.UpdatedAt,
		)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrDuplicateEmail
		}
		return err
	}

	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}
