package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:3000", cfg.Server.Addr)
	require.Equal(t, "data/comics.db", cfg.Database.Path)
	require.Empty(t, cfg.Auth.JWTSecret)
	require.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("COMICS_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("COMICS_AUTH_JWTSECRET", "hunter2")
	t.Setenv("COMICS_AUTH_TOKENTTLMINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, "hunter2", cfg.Auth.JWTSecret)
	require.Equal(t, 15, cfg.Auth.TokenTTLMinutes)
}
