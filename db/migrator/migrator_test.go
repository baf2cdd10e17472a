package migrator_test

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/brute/db"
	"go.hackfix.me/brute/db/migrator"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:brute-%x?mode=memory&cache=shared", rndName), time.Now)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func tableNames(t *testing.T, d *db.DB) []string {
	t.Helper()

	rows, err := d.QueryContext(t.Context(),
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())

	return names
}

var testFS = fstest.MapFS{
	"002-b.up.sql":   {Data: []byte(`CREATE TABLE b (id INTEGER);`)},
	"002-b.down.sql": {Data: []byte(`DROP TABLE b;`)},
	"001-a.up.sql":   {Data: []byte(`CREATE TABLE a (id INTEGER); CREATE TABLE a2 (id INTEGER);`)},
	"001-a.down.sql": {Data: []byte(`DROP TABLE a2; DROP TABLE a;`)},
	"003-c.up.sql":   {Data: []byte(`CREATE TABLE c (id INTEGER);`)},
}

func TestLoadMigrations(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		migrations, err := migrator.LoadMigrations(testFS)
		require.NoError(t, err)
		require.Len(t, migrations, 3)

		ids := []string{}
		for _, m := range migrations {
			ids = append(ids, m.ID+"-"+m.Name)
		}
		assert.Equal(t, []string{"001-a", "002-b", "003-c"}, ids)
		assert.Equal(t, `DROP TABLE b;`, migrations[1].Down)
		assert.Empty(t, migrations[2].Down)
	})

	testCases := []struct {
		name   string
		fsys   fstest.MapFS
		expErr string
	}{
		{
			name:   "err/invalid_name",
			fsys:   fstest.MapFS{"init.sql": {Data: []byte(`SELECT 1;`)}},
			expErr: "invalid migration file name: init.sql",
		},
		{
			name:   "err/missing_up",
			fsys:   fstest.MapFS{"001-a.down.sql": {Data: []byte(`DROP TABLE a;`)}},
			expErr: "migration 001-a is missing the up SQL",
		},
		{
			name: "err/conflicting_names",
			fsys: fstest.MapFS{
				"001-a.up.sql":   {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
				"001-b.down.sql": {Data: []byte(`DROP TABLE a;`)},
			},
			expErr: "migration 001 has conflicting names",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := migrator.LoadMigrations(tc.fsys)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.expErr)
		})
	}
}

func TestRunMigrations(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	migrations, err := migrator.LoadMigrations(testFS)
	require.NoError(t, err)

	t.Run("ok/up_down", func(t *testing.T) {
		t.Parallel()

		d := newTestDB(t)

		err := migrator.RunMigrations(d, migrations, migrator.MigrationUp, "002", logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"_migrations", "a", "a2", "b"}, tableNames(t, d))

		err = migrator.RunMigrations(d, migrations, migrator.MigrationUp, "all", logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"_migrations", "a", "a2", "b", "c"}, tableNames(t, d))

		// Applying again is a no-op.
		err = migrator.RunMigrations(d, migrations, migrator.MigrationUp, "all", logger)
		require.NoError(t, err)

		// 003 has no down SQL.
		err = migrator.RunMigrations(d, migrations, migrator.MigrationDown, "002", logger)
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed running migration 003-c down: migration has no down SQL")
		assert.Equal(t, []string{"_migrations", "a", "a2", "b", "c"}, tableNames(t, d))
	})

	t.Run("ok/down_target", func(t *testing.T) {
		t.Parallel()

		d := newTestDB(t)

		err := migrator.RunMigrations(d, migrations[:2], migrator.MigrationUp, "all", logger)
		require.NoError(t, err)

		err = migrator.RunMigrations(d, migrations[:2], migrator.MigrationDown, "001", logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"_migrations", "a", "a2"}, tableNames(t, d))

		err = migrator.RunMigrations(d, migrations[:2], migrator.MigrationDown, "all", logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"_migrations"}, tableNames(t, d))
	})

	t.Run("err/failed_rollback", func(t *testing.T) {
		t.Parallel()

		d := newTestDB(t)
		broken := []*migrator.Migration{{
			ID: "001", Name: "broken",
			Up: `CREATE TABLE x (id INTEGER); CREATE TABLE x (id INTEGER);`,
		}}

		err := migrator.RunMigrations(d, broken, migrator.MigrationUp, "all", logger)
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed running migration 001-broken up")
		assert.Equal(t, []string{"_migrations"}, tableNames(t, d))
	})

	t.Run("err/unknown_target", func(t *testing.T) {
		t.Parallel()

		d := newTestDB(t)
		err := migrator.RunMigrations(d, migrations, migrator.MigrationUp, "042", logger)
		require.Error(t, err)
		assert.ErrorContains(t, err, "migration with ID 042 not found")
	})
}
