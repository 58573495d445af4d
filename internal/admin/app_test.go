package admin

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/cryptox"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	cfg.HashIterations = 1000
	cfg.LogLevel = "error"

	a, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	out := &bytes.Buffer{}
	a.in = bufio.NewReader(strings.NewReader(input))
	a.out = out
	return a, out
}

func stubSecrets(t *testing.T, secrets ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	i := 0
	readPassword = func(int) ([]byte, error) {
		s := secrets[i%len(secrets)]
		i++
		return []byte(s), nil
	}
}

func TestCommandFromArgs(t *testing.T) {
	assert.Equal(t, CmdMigrate, CommandFromArgs([]string{"-d", "file:x.db", "migrate"}))
	assert.Equal(t, CmdRegister, CommandFromArgs([]string{"register", "-i", "1000"}))
	assert.Equal(t, CmdHelp, CommandFromArgs(nil))
	assert.Equal(t, CmdHelp, CommandFromArgs([]string{"bogus"}))
}

func TestRun_Help(t *testing.T) {
	a, out := newTestApp(t, "")
	require.NoError(t, a.Run(context.Background(), CmdHelp))
	assert.Contains(t, out.String(), "migrate")
	assert.Contains(t, out.String(), "register")
}

func TestRun_Migrate(t *testing.T) {
	a, _ := newTestApp(t, "")
	require.NoError(t, a.Run(context.Background(), CmdMigrate))

	var n int
	require.NoError(t, a.db.QueryRow(`SELECT COUNT(*) FROM user_table`).Scan(&n))
	assert.Zero(t, n)
}

func TestRun_Register(t *testing.T) {
	stubSecrets(t, "secret123")
	a, out := newTestApp(t, "Admin\nadmin@x.com\n")

	require.NoError(t, a.Run(context.Background(), CmdRegister))
	assert.Contains(t, out.String(), `Created user "Admin"`)

	var code string
	require.NoError(t, a.db.QueryRow(`SELECT code FROM user_table WHERE email = $1`, "admin@x.com").Scan(&code))
	ok, err := cryptox.Check(code, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_RegisterDuplicate(t *testing.T) {
	stubSecrets(t, "secret123")
	a, _ := newTestApp(t, "Admin\nadmin@x.com\nAdmin\nadmin@x.com\n")

	require.NoError(t, a.Run(context.Background(), CmdRegister))
	err := a.Run(context.Background(), CmdRegister)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestRun_RegisterMismatch(t *testing.T) {
	stubSecrets(t, "one", "two")
	a, _ := newTestApp(t, "Admin\nadmin@x.com\n")

	err := a.Run(context.Background(), CmdRegister)
	assert.ErrorIs(t, err, ErrSecretMismatch)
}

func TestRun_RegisterMissingFields(t *testing.T) {
	stubSecrets(t, "x")
	a, _ := newTestApp(t, "\n\n")

	err := a.Run(context.Background(), CmdRegister)
	assert.ErrorContains(t, err, "required")
}

func TestRun_RegisterDotName(t *testing.T) {
	stubSecrets(t, "secret123")
	a, _ := newTestApp(t, "..\nadmin@x.com\n")

	err := a.Run(context.Background(), CmdRegister)
	assert.ErrorContains(t, err, "not allowed")

	var n int
	require.NoError(t, a.db.QueryRow(`SELECT COUNT(*) FROM user_table`).Scan(&n))
	assert.Zero(t, n)
}
