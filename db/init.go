package db

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/mr-tron/base58"

	"go.hackfix.me/brute/db/migrator"
	"go.hackfix.me/brute/db/models"
	"go.hackfix.me/brute/db/types"
)

// Init creates the database schema, the metadata record and the given initial
// users. hashName is the name of the hash function the users' password hashes
// were created with.
func (d *DB) Init(
	appVersion, hashName string, users []*models.User, logger *slog.Logger,
) error {
	dblogger := logger.With("path", d.path)
	dblogger.Debug("initializing database")

	err := migrator.RunMigrations(d, d.migrations, migrator.MigrationUp, "all", logger)
	if err != nil {
		return err
	}

	instanceID, err := newInstanceID()
	if err != nil {
		return err
	}

	_, err = d.ExecContext(d.NewContext(),
		`INSERT INTO _meta (version, instance_id, hash) VALUES (?, ?, ?)`,
		appVersion, instanceID, hashName)
	if err != nil {
		return fmt.Errorf("failed inserting into _meta: %w", err)
	}

	if err = createUsers(d.NewContext(), d, users); err != nil {
		return err
	}

	dblogger.Info("database initialized",
		"instance_id", instanceID, "hash", hashName, "users", len(users))

	return nil
}

// DefaultUsers returns the users the lab is usually seeded with. sum is used
// to hash their passwords.
func DefaultUsers(sum func(string) string) []*models.User {
	creds := []struct{ name, password string }{
		{"admin", "password"},
		{"gordonb", "abc123"},
		{"1337", "charley"},
		{"pablo", "letmein"},
		{"smithy", "password"},
	}

	users := make([]*models.User, len(creds))
	for i, c := range creds {
		users[i] = &models.User{
			Name:         c.name,
			PasswordHash: sum(c.password),
			Avatar:       fmt.Sprintf("./avatars/%s.jpg", c.name),
		}
	}

	return users
}

func createUsers(ctx context.Context, d types.Querier, users []*models.User) error {
	for _, user := range users {
		if err := user.Save(ctx, d, false); err != nil {
			return fmt.Errorf("failed creating user '%s': %w", user.Name, err)
		}
	}

	return nil
}

func newInstanceID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed generating instance ID: %w", err)
	}

	return base58.Encode(b), nil
}
