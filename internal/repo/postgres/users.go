package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prismhq/prism-api/internal/domain/user"
	"github.com/prismhq/prism-api/internal/observability"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at, updated_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash, firstName, lastName, role string) (user.User, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	var u user.User

	err := r.observe("users.create", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`INSERT INTO users (id, email, password_hash, first_name, last_name, role, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			 RETURNING `+userColumns,
			id, email, passwordHash, firstName, lastName, role, now,
		))
		return scanErr
	})

	if err != nil {
		// the unique index on email makes concurrent duplicate signups
		// surface here rather than slipping past a pre-check
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`,
			email,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`,
			id,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]user.User, 0)

		for rows.Next() {
			u, err := scanUser(rows)

			if err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// UpdatePartial applies only the fields present in the update; everything
// else keeps its stored value. updated_at always advances, even when the
// caller supplied no fields at all (a PATCH with an empty body is a
// legitimate touch, not an error at this layer).
func (r *UsersRepo) UpdatePartial(ctx context.Context, id string, fields PartialUpdate) (user.User, error) {
	setClause, args, err := fields.SetClause(2)

	if errors.Is(err, ErrNothingToUpdate) {
		return r.touch(ctx, id)
	}

	if err != nil {
		return user.User{}, err
	}

	args = append([]any{id}, args...)

	var u user.User

	err = r.observe("users.update", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`UPDATE users
			 SET `+setClause+`, updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+userColumns,
			args...,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) touch(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.update", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`UPDATE users SET updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
			id,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("users.delete", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return execErr
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}
