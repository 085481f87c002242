package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prismhq/prism-api/internal/domain/project"
	"github.com/prismhq/prism-api/internal/observability"
)

const projectColumns = `id, name, description, owner_id, status, created_at, updated_at`

type ProjectsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProjectsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProjectsRepo {
	return &ProjectsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProjectsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.OwnerID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	return p, err
}

// Create checks the owner first for a clean error, but the FK on
// owner_id is what guarantees no orphan row lands under a racing delete.
func (r *ProjectsRepo) Create(ctx context.Context, name string, description *string, ownerID string) (project.Project, error) {
	var ownerExists bool

	err := r.observe("projects.owner_check", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`,
			ownerID,
		).Scan(&ownerExists)
	})

	if err != nil {
		return project.Project{}, err
	}

	if !ownerExists {
		return project.Project{}, project.ErrOwnerNotFound
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	var p project.Project

	err = r.observe("projects.create", func() error {
		var scanErr error
		p, scanErr = scanProject(r.pool.QueryRow(
			ctx,
			`INSERT INTO projects (id, name, description, owner_id, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)
			 RETURNING `+projectColumns,
			id, name, description, ownerID, project.DefaultStatus, now,
		))
		return scanErr
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return project.Project{}, project.ErrOwnerNotFound
		}

		return project.Project{}, err
	}

	return p, nil
}

func (r *ProjectsRepo) GetByID(ctx context.Context, id string) (project.Project, error) {
	var p project.Project

	err := r.observe("projects.get_by_id", func() error {
		var scanErr error
		p, scanErr = scanProject(r.pool.QueryRow(
			ctx,
			`SELECT `+projectColumns+` FROM projects WHERE id = $1`,
			id,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}

		return project.Project{}, err
	}

	return p, nil
}

func (r *ProjectsRepo) List(ctx context.Context) ([]project.Project, error) {
	var out []project.Project

	err := r.observe("projects.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]project.Project, 0)

		for rows.Next() {
			p, err := scanProject(rows)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Update replaces every mutable field; callers pass values already
// trimmed. A nil description stores NULL.
func (r *ProjectsRepo) Update(ctx context.Context, id, name string, description *string, status string) (project.Project, error) {
	var p project.Project

	err := r.observe("projects.update", func() error {
		var scanErr error
		p, scanErr = scanProject(r.pool.QueryRow(
			ctx,
			`UPDATE projects
			 SET name = $2,
			     description = $3,
			     status = $4,
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+projectColumns,
			id, name, description, status,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}

		return project.Project{}, err
	}

	return p, nil
}

func (r *ProjectsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("projects.delete", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		return execErr
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return project.ErrNotFound
	}

	return nil
}
