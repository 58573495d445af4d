// Package sessions declares the server-side repository contract for login
// sessions referenced by the session cookie.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository persists login sessions.
type Repository interface {
	// Create stores a session for userID that expires after validity and
	// returns it with a fresh random ID.
	Create(ctx context.Context, userID int64, validity time.Duration) (*models.Session, error)

	// Find returns common.ErrorNotFound when the id is unknown.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes a session. Missing ids are ignored.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every session that expired before now and reports
	// how many rows were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
