package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.GRPCHealthAddr = "127.0.0.1:0"
	cfg.LogLevel = "error"
	cfg.HashIterations = 1000
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func TestNewApp_RunsMigrations(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.db.Close()

	var n int
	require.NoError(t, app.db.QueryRow(`SELECT COUNT(*) FROM user_table`).Scan(&n))
	assert.Zero(t, n)
}

func TestNewApp_UnreachablePostgres(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDSN = "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	_, err := NewApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "migration error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}

	assert.Error(t, app.db.PingContext(context.Background()), "db must be closed after Run")
}
