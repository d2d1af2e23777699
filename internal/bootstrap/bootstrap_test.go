package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"swapquote-service/internal/config"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func localConfig() config.Config {
	cfg := config.Load()
	cfg.Storage = "memory"
	cfg.PriceFeed = "fake"
	cfg.IdempotencyBackend = "none"
	return cfg
}

func TestInitApp_Memory(t *testing.T) {
	app, cleanup, err := InitApp(context.Background(), localConfig())
	require.NoError(t, err)
	defer cleanup()
	require.Len(t, app.Workers, 2)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestInitApp_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := localConfig()
	cfg.IdempotencyBackend = "redis"
	cfg.RedisAddr = mr.Addr()
	_, cleanup, err := InitApp(context.Background(), cfg)
	require.NoError(t, err)
	cleanup()
}

func TestInitApp_BadConfig(t *testing.T) {
	cases := []struct {
		name string
		edit func(*config.Config)
		want error
	}{
		{"storage", func(c *config.Config) { c.Storage = "mongo" }, ErrUnknownStorage},
		{"pg without url", func(c *config.Config) { c.Storage = "pg"; c.DatabaseURL = "" }, ErrMissingDBURL},
		{"feed", func(c *config.Config) { c.PriceFeed = "ftp" }, ErrUnknownFeed},
		{"idempotency", func(c *config.Config) { c.IdempotencyBackend = "memcached" }, ErrUnknownIdem},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := localConfig()
			tc.edit(&cfg)
			_, _, err := InitApp(context.Background(), cfg)
			require.ErrorIs(t, err, tc.want)
		})
	}
}
