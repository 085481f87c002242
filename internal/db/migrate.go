package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema up to date. It opens a short-lived
// database/sql connection because goose does not speak pgxpool.
func Migrate(dbURL string) error {
	conn, err := sql.Open("pgx", dbURL)

	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	defer conn.Close()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
