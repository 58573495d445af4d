// Package tasks declares the repository contract for to-do records.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository stores tasks. Ownership is enforced by the service layer; the
// repository only filters by user where a listing is requested.
type Repository interface {
	// ListByUser returns the user's tasks in ascending id order.
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)

	// Create inserts task and fills in its ID.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// Get returns common.ErrorNotFound when the id is unknown.
	Get(ctx context.Context, id int64) (*models.Task, error)

	// Update overwrites title and body. It returns common.ErrorNotFound when
	// no row was touched.
	Update(ctx context.Context, id int64, title, body string) error

	// Delete removes the task. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
}
