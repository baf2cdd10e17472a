package login_test

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/brute/db"
	"go.hackfix.me/brute/db/models"
	"go.hackfix.me/brute/db/types"
	"go.hackfix.me/brute/login"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

func newTestDB(t *testing.T, hasher login.Hasher) *db.DB {
	t.Helper()

	// A unique name per test, to avoid clashing of in-memory SQLite DBs.
	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:brute-%x?mode=memory&cache=shared", rndName), timeNowFn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	err = d.Init("v0.0.0", hasher.Name(), db.DefaultUsers(hasher.Sum),
		slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return d
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	d := newTestDB(t, login.MD5())

	tests := []struct {
		name      string
		req       login.Request
		expAuth   bool
		expAvatar string
		expHTML   string
		expMsg    string
	}{
		{
			name:      "ok/admin",
			req:       login.Request{Username: "admin", Password: "password"},
			expAuth:   true,
			expAvatar: "./avatars/admin.jpg",
			expHTML: `<p>Welcome to the password protected area admin</p>` +
				`<img src="./avatars/admin.jpg" />`,
			expMsg: "Welcome to the password protected area admin",
		},
		{
			name:      "ok/same_password_other_user",
			req:       login.Request{Username: "smithy", Password: "password"},
			expAuth:   true,
			expAvatar: "./avatars/smithy.jpg",
			expHTML: `<p>Welcome to the password protected area smithy</p>` +
				`<img src="./avatars/smithy.jpg" />`,
			expMsg: "Welcome to the password protected area smithy",
		},
		{
			name:      "ok/name_case_insensitive",
			req:       login.Request{Username: "ADMIN", Password: "password"},
			expAuth:   true,
			expAvatar: "./avatars/admin.jpg",
			expHTML: `<p>Welcome to the password protected area ADMIN</p>` +
				`<img src="./avatars/admin.jpg" />`,
			expMsg: "Welcome to the password protected area ADMIN",
		},
		{
			name:    "err/password_case_sensitive",
			req:     login.Request{Username: "admin", Password: "PASSWORD"},
			expHTML: "<pre><br />Username and/or password incorrect.</pre>",
			expMsg:  "Username and/or password incorrect.",
		},
		{
			name:    "err/wrong_password",
			req:     login.Request{Username: "admin", Password: "wrong"},
			expHTML: "<pre><br />Username and/or password incorrect.</pre>",
			expMsg:  "Username and/or password incorrect.",
		},
		{
			name:    "err/other_users_password",
			req:     login.Request{Username: "admin", Password: "abc123"},
			expHTML: "<pre><br />Username and/or password incorrect.</pre>",
			expMsg:  "Username and/or password incorrect.",
		},
		{
			name:    "err/unknown_user",
			req:     login.Request{Username: "root", Password: "password"},
			expHTML: "<pre><br />Username and/or password incorrect.</pre>",
			expMsg:  "Username and/or password incorrect.",
		},
		{
			name:    "err/empty",
			req:     login.Request{},
			expHTML: "<pre><br />Username and/or password incorrect.</pre>",
			expMsg:  "Username and/or password incorrect.",
		},
		{
			name: "err/sql_injection",
			req: login.Request{
				Username: "admin' OR '1'='1' -- ", Password: "x",
			},
			expHTML: "<pre><br />Username and/or password incorrect.</pre>",
			expMsg:  "Username and/or password incorrect.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn, err := d.Acquire(t.Context())
			require.NoError(t, err)
			defer conn.Close()

			res := login.Authenticate(t.Context(), conn, login.MD5(), tt.req)
			assert.NoError(t, res.Err)
			assert.Equal(t, tt.expAuth, res.Authenticated)
			assert.Equal(t, tt.req.Username, res.Username)
			assert.Equal(t, tt.expAvatar, res.Avatar)
			assert.Equal(t, tt.expHTML, res.HTML())
			assert.Equal(t, tt.expMsg, res.Message())
		})
	}
}

func TestAuthenticateRawOutput(t *testing.T) {
	t.Parallel()

	d := newTestDB(t, login.MD5())
	user := &models.User{
		Name:         "<b>eve</b>",
		PasswordHash: login.MD5().Sum("hunter2"),
		Avatar:       `x" onerror="alert(1)`,
	}
	require.NoError(t, user.Save(t.Context(), d, false))

	res := login.Authenticate(t.Context(), d, login.MD5(),
		login.Request{Username: "<b>eve</b>", Password: "hunter2"})
	require.True(t, res.Authenticated)
	assert.Equal(t,
		`<p>Welcome to the password protected area <b>eve</b></p>`+
			`<img src="x" onerror="alert(1)" />`, res.HTML())
}

func TestAuthenticateAmbiguous(t *testing.T) {
	t.Parallel()

	d := newTestDB(t, login.MD5())

	// Bypass User.Save, which refuses duplicates.
	_, err := d.ExecContext(t.Context(), `INSERT INTO users
		(created_at, updated_at, user, password, avatar)
		VALUES (?, ?, ?, ?, ?)`,
		timeNow, timeNow, "admin", login.MD5().Sum("password"), "./avatars/other.jpg")
	require.NoError(t, err)

	res := login.Authenticate(t.Context(), d, login.MD5(),
		login.Request{Username: "admin", Password: "password"})
	assert.False(t, res.Authenticated)
	assert.Empty(t, res.Avatar)
	assert.Equal(t, "<pre><br />Username and/or password incorrect.</pre>", res.HTML())

	var errIntegrity types.IntegrityError
	require.ErrorAs(t, res.Err, &errIntegrity)
	assert.Contains(t, errIntegrity.Msg, "2 users match name 'admin'")
}

func TestAuthenticateStoreError(t *testing.T) {
	t.Parallel()

	d := newTestDB(t, login.MD5())

	conn, err := d.Acquire(t.Context())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	var res login.Result
	require.NotPanics(t, func() {
		res = login.Authenticate(t.Context(), conn, login.MD5(),
			login.Request{Username: "admin", Password: "password"})
	})
	assert.False(t, res.Authenticated)
	assert.ErrorIs(t, res.Err, sql.ErrConnDone)
	assert.Equal(t, "<pre><br />Username and/or password incorrect.</pre>", res.HTML())
}

func TestAuthenticateHasherMismatch(t *testing.T) {
	t.Parallel()

	d := newTestDB(t, login.SHA3())

	res := login.Authenticate(t.Context(), d, login.SHA3(),
		login.Request{Username: "gordonb", Password: "abc123"})
	assert.True(t, res.Authenticated)

	res = login.Authenticate(t.Context(), d, login.MD5(),
		login.Request{Username: "gordonb", Password: "abc123"})
	assert.False(t, res.Authenticated)
	assert.NoError(t, res.Err)
}

func TestTriggered(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  string
		expTrg bool
		expReq login.Request
	}{
		{
			name:   "ok/triggered",
			query:  "username=admin&password=password&Login=Login",
			expTrg: true,
			expReq: login.Request{Username: "admin", Password: "password"},
		},
		{
			name:   "ok/triggered_empty_value",
			query:  "Login=&username=a%26b",
			expTrg: true,
			expReq: login.Request{Username: "a&b"},
		},
		{
			name:   "ok/not_triggered",
			query:  "username=admin&password=password",
			expReq: login.Request{Username: "admin", Password: "password"},
		},
		{
			name:   "ok/case_sensitive",
			query:  "login=Login",
			expReq: login.Request{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			params, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expTrg, login.Triggered(params))
			assert.Equal(t, tt.expReq, login.RequestFromValues(params))
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	d := newTestDB(t, login.MD5())

	res := login.Check(t.Context(), d, login.MD5(),
		login.Request{Username: "pablo", Password: "letmein"})
	require.NoError(t, res.Err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, "./avatars/pablo.jpg", res.Avatar)

	// The connection is released, so the pool is idle again.
	assert.Equal(t, 0, d.Stats().InUse)

	res = login.Check(t.Context(), d, login.MD5(),
		login.Request{Username: "pablo", Password: "letmein1"})
	require.NoError(t, res.Err)
	assert.False(t, res.Authenticated)
	assert.Equal(t, 0, d.Stats().InUse)

	require.NoError(t, d.Close())
	res = login.Check(t.Context(), d, login.MD5(),
		login.Request{Username: "pablo", Password: "letmein"})
	assert.False(t, res.Authenticated)
	assert.Error(t, res.Err)
	assert.Equal(t, "<pre><br />Username and/or password incorrect.</pre>", res.HTML())
}
