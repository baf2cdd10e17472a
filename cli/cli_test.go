package cli

import (
	"database/sql"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/stretchr/testify/assert"

	"go.hackfix.me/brute/app/config"
	stypes "go.hackfix.me/brute/web/server/types"
)

func TestApplyConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		serve    Serve
		server   config.Server
		expServe Serve
	}{
		{
			name:  "ok/defaults",
			serve: Serve{},
			expServe: Serve{
				Address:    "127.0.0.1:4280",
				ErrorLevel: string(stypes.ErrorLevelNone),
			},
		},
		{
			name:  "ok/config_values",
			serve: Serve{},
			server: config.Server{
				Address:    sql.Null[string]{V: ":8080", Valid: true},
				AvatarsDir: sql.Null[string]{V: "/srv/avatars", Valid: true},
				ErrorLevel: sql.Null[stypes.ErrorLevel]{V: stypes.ErrorLevelFull, Valid: true},
			},
			expServe: Serve{
				Address:    ":8080",
				AvatarsDir: "/srv/avatars",
				ErrorLevel: string(stypes.ErrorLevelFull),
			},
		},
		{
			name: "ok/flags_win",
			serve: Serve{
				Address:    "0.0.0.0:9000",
				AvatarsDir: "/tmp/avatars",
				ErrorLevel: string(stypes.ErrorLevelMinimal),
			},
			server: config.Server{
				Address:    sql.Null[string]{V: ":8080", Valid: true},
				AvatarsDir: sql.Null[string]{V: "/srv/avatars", Valid: true},
			},
			expServe: Serve{
				Address:    "0.0.0.0:9000",
				AvatarsDir: "/tmp/avatars",
				ErrorLevel: string(stypes.ErrorLevelMinimal),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig(memoryfs.New(), "/config.json")
			cfg.Server = tt.server
			cfg.SetDefaults()

			c := &CLI{Serve: tt.serve}
			c.ApplyConfig(cfg)
			assert.Equal(t, tt.expServe, c.Serve)
		})
	}
}
