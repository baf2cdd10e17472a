package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.hackfix.me/brute/db/types"
)

// User is a credential record: a user name, the hash of their password and a
// reference to their avatar image.
type User struct {
	ID           uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string
	PasswordHash string
	Avatar       string
}

// Save stores the user data in the database. When creating a user, it fails
// with a DuplicateError if a user with the same name already exists.
func (u *User) Save(ctx context.Context, d types.Querier, update bool) error {
	timeNow := d.TimeNow().UTC()
	if update { //nolint:nestif // It's fine.
		if u.ID == 0 {
			return errors.New("must provide a user ID to update")
		}
		filterStr := fmt.Sprintf("ID %d", u.ID)

		res, err := d.ExecContext(ctx, `UPDATE users
			SET updated_at = ?,
			    password = ?,
			    avatar = ?
			WHERE id = ?`, timeNow, u.PasswordHash, u.Avatar, u.ID)
		if err != nil {
			return types.Err("user", filterStr, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed getting affected rows: %w", err)
		}
		if n == 0 {
			return types.NoResultError{ModelName: "user", ID: filterStr}
		}
		if n > 1 {
			return types.IntegrityError{Msg: fmt.Sprintf("updated %d users", n)}
		}
		u.UpdatedAt = timeNow
	} else {
		filterStr := fmt.Sprintf("name '%s'", u.Name)
		// The schema allows duplicate names, so uniqueness is enforced here.
		count, err := filterCount(ctx, d, "users", types.NewFilter("user = ?", []any{u.Name}))
		if err != nil {
			return err
		}
		if count > 0 {
			return types.DuplicateError{ModelName: "user", ID: filterStr}
		}

		insertStmt := `INSERT INTO users
		(id, created_at, updated_at, user, password, avatar)
		VALUES (NULL, ?, ?, ?, ?, ?)`
		res, err := d.ExecContext(ctx, insertStmt,
			timeNow, timeNow, u.Name, u.PasswordHash, u.Avatar)
		if err != nil {
			return types.Err("user", filterStr, err)
		}

		u.ID, err = lastInsertID(res)
		if err != nil {
			return err
		}
		u.CreatedAt = timeNow
		u.UpdatedAt = timeNow
	}

	return nil
}

// Load the user data from the database. Either the user ID or Name must be set
// for the lookup. Loading by name fails with an IntegrityError if more than one
// user has that name.
func (u *User) Load(ctx context.Context, d types.Querier) error {
	filter, filterStr, err := u.createFilter("u.")
	if err != nil {
		return err
	}

	users, err := Users(ctx, d, filter)
	if err != nil {
		return err
	}

	switch len(users) {
	case 0:
		return types.NoResultError{ModelName: "user", ID: filterStr}
	case 1:
		*u = *users[0]
		return nil
	default:
		return types.IntegrityError{
			Msg: fmt.Sprintf("found %d users with %s", len(users), filterStr),
		}
	}
}

// Delete removes the user data from the database. Either the user ID or Name
// must be set for the lookup. When deleting by name, all users with that name
// are removed. It returns an error if no user was deleted.
func (u *User) Delete(ctx context.Context, d types.Querier) error {
	filter, filterStr, err := u.createFilter("")
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(`DELETE FROM users WHERE %s`, filter.Where)

	res, err := d.ExecContext(ctx, stmt, filter.Args...)
	if err != nil {
		return types.Err("user", filterStr, err)
	}

	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("failed getting affected rows: %w", err)
	} else if n == 0 {
		return types.NoResultError{ModelName: "user", ID: filterStr}
	}

	return nil
}

// createFilter returns a filter matching the user by ID or name. prefix is
// prepended to column names, e.g. to qualify them with a table alias.
func (u *User) createFilter(prefix string) (*types.Filter, string, error) {
	switch {
	case u.ID != 0:
		return types.NewFilter(prefix+"id = ?", []any{u.ID}), fmt.Sprintf("ID %d", u.ID), nil
	case u.Name != "":
		return types.NewFilter(prefix+"user = ?", []any{u.Name}), fmt.Sprintf("name '%s'", u.Name), nil
	default:
		return nil, "", types.InvalidInputError{Msg: "either user ID or Name must be set"}
	}
}

// Users returns one or more users from the database. An optional filter can be
// passed to limit the results. Filter conditions can refer to the users table
// with the alias u.
func Users(ctx context.Context, d types.Querier, filter *types.Filter) (users []*User, rerr error) {
	query := `SELECT u.id, u.created_at, u.updated_at, u.user, u.password, u.avatar
		FROM users u
		WHERE %s
		ORDER BY u.user ASC, u.id ASC %s`

	where := "1=1"
	args := []any{}
	var limit string
	if filter != nil {
		where = filter.Where
		args = filter.Args
		if filter.Limit > 0 {
			limit = fmt.Sprintf("LIMIT %d", filter.Limit)
		}
	}

	query = fmt.Sprintf(query, where, limit)

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "users", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing users rows: %w", err)
		}
	}()

	users = make([]*User, 0)
	for rows.Next() {
		var u User
		err = rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name, &u.PasswordHash, &u.Avatar)
		if err != nil {
			return nil, types.ScanError{ModelName: "user", Err: err}
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over users rows: %w", err)
	}

	return users, nil
}
