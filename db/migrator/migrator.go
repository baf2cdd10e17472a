package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Direction is the direction a migration is applied in.
type Direction string

// Valid migration directions.
const (
	MigrationUp   Direction = "up"
	MigrationDown Direction = "down"
)

// Migration is a single schema change, with the SQL to apply and to revert it.
type Migration struct {
	ID   string
	Name string
	Up   string
	Down string
}

// DB is the database interface required for running migrations.
type DB interface {
	NewContext() context.Context
	TimeNow() time.Time
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var fileNameRx = regexp.MustCompile(`^(\d+)-([\w-]+)\.(up|down)\.sql$`)

// LoadMigrations reads all migration files from the root of fsys, and returns
// them sorted by ID. Every migration must have an up file; down files are
// optional.
func LoadMigrations(fsys fs.FS) ([]*Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed reading migrations directory: %w", err)
	}

	migrations := map[string]*Migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileNameRx.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("invalid migration file name: %s", entry.Name())
		}
		id, name, dir := match[1], match[2], Direction(match[3])

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed reading migration file %s: %w", entry.Name(), err)
		}

		m, ok := migrations[id]
		if !ok {
			m = &Migration{ID: id, Name: name}
			migrations[id] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("migration %s has conflicting names: %s, %s", id, m.Name, name)
		}

		switch dir {
		case MigrationUp:
			m.Up = string(data)
		case MigrationDown:
			m.Down = string(data)
		}
	}

	result := make([]*Migration, 0, len(migrations))
	for _, m := range migrations {
		if strings.TrimSpace(m.Up) == "" {
			return nil, fmt.Errorf("migration %s-%s is missing the up SQL", m.ID, m.Name)
		}
		result = append(result, m)
	}
	slices.SortFunc(result, func(a, b *Migration) int {
		return strings.Compare(a.ID, b.ID)
	})

	return result, nil
}

// RunMigrations applies migrations in the given direction until the migration
// with ID target is reached (inclusive when going up, exclusive when going
// down). If target is "all", all pending migrations are applied, or all
// applied migrations are reverted.
func RunMigrations(
	d DB, migrations []*Migration, dir Direction, target string, logger *slog.Logger,
) error {
	ctx := d.NewContext()
	if err := createHistoryTable(ctx, d); err != nil {
		return err
	}

	applied, err := appliedMigrations(ctx, d)
	if err != nil {
		return err
	}

	plan, err := createPlan(migrations, applied, dir, target)
	if err != nil {
		return err
	}

	for _, m := range plan {
		mlogger := logger.With("id", m.ID, "name", m.Name, "direction", dir)
		mlogger.Debug("running migration")
		if err = runMigration(ctx, d, m, dir); err != nil {
			return fmt.Errorf("failed running migration %s-%s %s: %w", m.ID, m.Name, dir, err)
		}
		mlogger.Debug("migration done")
	}

	return nil
}

func createPlan(
	migrations []*Migration, applied map[string]struct{}, dir Direction, target string,
) ([]*Migration, error) {
	if target != "all" && !slices.ContainsFunc(migrations, func(m *Migration) bool {
		return m.ID == target
	}) {
		return nil, fmt.Errorf("migration with ID %s not found", target)
	}

	plan := []*Migration{}
	switch dir {
	case MigrationUp:
		for _, m := range migrations {
			if _, ok := applied[m.ID]; !ok {
				plan = append(plan, m)
			}
			if m.ID == target {
				break
			}
		}
	case MigrationDown:
		for _, m := range slices.Backward(migrations) {
			if m.ID == target {
				break
			}
			if _, ok := applied[m.ID]; ok {
				plan = append(plan, m)
			}
		}
	default:
		return nil, fmt.Errorf("invalid migration direction: %s", dir)
	}

	return plan, nil
}

func runMigration(ctx context.Context, d DB, m *Migration, dir Direction) (rerr error) {
	stmt := m.Up
	if dir == MigrationDown {
		stmt = m.Down
		if strings.TrimSpace(stmt) == "" {
			return errors.New("migration has no down SQL")
		}
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed starting transaction: %w", err)
	}
	defer func() {
		if rerr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, stmt); err != nil {
		return err
	}

	if dir == MigrationUp {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO _migrations (id, name, applied_at) VALUES (?, ?, ?)`,
			m.ID, m.Name, d.TimeNow().UTC())
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM _migrations WHERE id = ?`, m.ID)
	}
	if err != nil {
		return fmt.Errorf("failed updating migration history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed committing transaction: %w", err)
	}

	return nil
}

func createHistoryTable(ctx context.Context, d DB) error {
	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed creating migration history table: %w", err)
	}

	return nil
}

func appliedMigrations(ctx context.Context, d DB) (_ map[string]struct{}, rerr error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM _migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed querying migration history: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing migration history rows: %w", err)
		}
	}()

	applied := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed scanning migration history: %w", err)
		}
		applied[id] = struct{}{}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over migration history rows: %w", err)
	}

	return applied, nil
}
