// Package admin implements the operator CLI: applying schema migrations and
// creating accounts without going through the web signup form.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
)

// Commands understood by Run.
const (
	CmdMigrate  = "migrate"
	CmdRegister = "register"
	CmdHelp     = "help"
)

var ErrSecretMismatch = errors.New("access codes do not match")

type userCreator interface {
	CreateUser(ctx context.Context, name, email, code string) (*models.User, error)
}

type App struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	users  userCreator
	logger logging.Logger
	in     *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured database. Call Close when done.
func NewApp(c *config.Config) (*App, error) {
	db, dialect, err := dbx.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{
		db:     db,
		rm:     rm,
		users:  services.NewUserService(db, rm, c),
		logger: logging.New(os.Stderr, c.LogLevel, "text"),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// CommandFromArgs returns the first known command in args, or CmdHelp.
// Flags and their values are skipped by the config loader, so only the
// command word matters here.
func CommandFromArgs(args []string) string {
	for _, arg := range args {
		switch arg {
		case CmdMigrate, CmdRegister, CmdHelp:
			return arg
		}
	}
	return CmdHelp
}

func (a *App) Run(ctx context.Context, cmd string) error {
	switch cmd {
	case CmdMigrate:
		return a.migrate(ctx)
	case CmdRegister:
		if err := a.migrate(ctx); err != nil {
			return err
		}
		return a.register(ctx)
	default:
		a.help()
		return nil
	}
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Usage: todocli [flags] <command>")
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  migrate    apply database migrations")
	fmt.Fprintln(a.out, "  register   create a user account")
	fmt.Fprintln(a.out, "Flags: -d <dsn>, -i <pbkdf2 iterations>, -c <config.json>, -env <file>")
}

func (a *App) migrate(ctx context.Context) error {
	if err := a.rm.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	a.logger.Info(ctx, "migrations applied")
	return nil
}

func (a *App) register(ctx context.Context) error {
	name, err := GetSimpleText(a.in, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}
	if name == "" || email == "" {
		return fmt.Errorf("name and email are required")
	}
	if !models.ValidUserName(name) {
		return fmt.Errorf("user name %q is not allowed", name)
	}

	secret, err := GetSecret("Enter secret access code", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	confirm, err := GetSecret("Repeat secret access code", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if len(secret) == 0 {
		return fmt.Errorf("secret access code is required")
	}
	if !bytes.Equal(secret, confirm) {
		return ErrSecretMismatch
	}

	user, err := a.users.CreateUser(ctx, name, email, string(secret))
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return fmt.Errorf("%s: %w", email, err)
		}
		return err
	}

	a.logger.Info(ctx, "user created", "user_id", user.ID)
	fmt.Fprintf(a.out, "Created user %q (id %d)\n", user.Name, user.ID)
	return nil
}
