// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, logout and resolving a session
// cookie back to its user.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/cryptox"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// UserService provides the credential and session operations:
//   - Register: create an account and start a session for it
//   - Login: verify an access code and start a session
//   - Logout: end a session
//   - Resolve: map a session id to its user
type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	hasher                  *cryptox.Hasher
	sessionValidityDuration time.Duration
	now                     func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		hasher:                  cryptox.NewHasher(cfg.HashIterations),
		sessionValidityDuration: cfg.SessionValidityDuration,
		now:                     time.Now,
	}
}

// CreateUser stores a new account without starting a session. A taken email
// yields common.ErrDuplicateEmail.
func (s *UserService) CreateUser(ctx context.Context, name, email, code string) (*models.User, error) {
	user, err := s.newUser(name, email, code)
	if err != nil {
		return nil, err
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.insertUser(ctx, tx, user)
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// Register creates the account and its first session in one transaction.
func (s *UserService) Register(ctx context.Context, name, email, code string) (*models.User, *models.Session, error) {
	user, err := s.newUser(name, email, code)
	if err != nil {
		return nil, nil, err
	}

	var session *models.Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.insertUser(ctx, tx, user); err != nil {
			return err
		}
		var err error
		session, err = s.repomanager.Sessions(tx).Create(ctx, user.ID, s.sessionValidityDuration)
		if err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Login checks code against the stored hash for email and writes the new
// session in its own transaction. It returns common.ErrUnknownEmail or
// common.ErrBadCredential without opening a transaction when the check fails.
func (s *UserService) Login(ctx context.Context, email, code string) (*models.User, *models.Session, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrUnknownEmail
		}
		return nil, nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := cryptox.Check(user.Code, code)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stored hash for user %d: %v", common.ErrorInternal, user.ID, err)
	}
	if !ok {
		return nil, nil, common.ErrBadCredential
	}

	var session *models.Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		session, err = s.repomanager.Sessions(tx).Create(ctx, user.ID, s.sessionValidityDuration)
		if err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Logout deletes the session. An empty or unknown id is not an error.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// Resolve returns the user behind sessionID. Unknown sessions yield
// common.ErrorUnauthorized and expired ones common.ErrSessionExpired.
func (s *UserService) Resolve(ctx context.Context, sessionID string) (*models.User, error) {
	sessions := s.repomanager.Sessions(s.db)

	session, err := sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := sessions.Delete(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("error deleting session: %w", err)
		}
		return nil, common.ErrSessionExpired
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return user, nil
}

// PurgeExpiredSessions removes sessions that expired before now.
func (s *UserService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now())
}

// --- helpers below ---

func (s *UserService) newUser(name, email, code string) (*models.User, error) {
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return nil, fmt.Errorf("error hashing code: %w", err)
	}
	return &models.User{Name: name, Email: email, Code: hash, CreatedAt: s.now()}, nil
}

// insertUser checks the email explicitly before inserting; the unique index
// catches the race between two concurrent signups.
func (s *UserService) insertUser(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	repo := s.repomanager.Users(tx)

	_, err := repo.GetUserByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("error searching user: %w", err)
	}

	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}
