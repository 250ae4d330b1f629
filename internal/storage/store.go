// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
)

// MaxPageLimit caps how many records a single list call may return.
const MaxPageLimit = 500

// Page selects a window of a listing in creation order.
// The zero value selects every record.
type Page struct {
	Limit  int
	Offset int
}

// Validate rejects windows outside the supported range.
func (p Page) Validate() error {
	if p.Limit < 0 || p.Limit > MaxPageLimit {
		return apperr.Invalid("limit", "must be between 1 and 500")
	}
	if p.Offset < 0 {
		return apperr.Invalid("offset", "must not be negative")
	}
	return nil
}

// ProductStore persists catalog entries.
type ProductStore interface {
	// CreateProduct persists a new product. The ID and CreatedAt fields are
	// populated by the store.
	CreateProduct(ctx context.Context, product *models.Product) error

	// GetProduct returns apperr.ErrNotFound if no product has the ID.
	GetProduct(ctx context.Context, productID string) (*models.Product, error)

	// ListProducts returns products in creation order.
	ListProducts(ctx context.Context, page Page) ([]*models.Product, error)

	DeleteProduct(ctx context.Context, productID string) error
}

// UserStore persists accounts. Email is unique; a second CreateUser with
// the same email returns apperr.ErrConflict.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// OrderStore persists checkout records.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// ProjectStore persists projects together with their embedded tasks.
// Task mutations are single atomic store operations on the parent, so
// concurrent appends to one project never lose a task.
type ProjectStore interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	ListProjects(ctx context.Context, page Page) ([]*models.Project, error)
	DeleteProject(ctx context.Context, projectID string) error

	// AppendTask adds the task to the end of the project's sequence and
	// returns the updated project. The task's ID and CreatedAt are
	// populated by the store.
	AppendTask(ctx context.Context, projectID string, task *models.Task) (*models.Project, error)

	// SetTaskDone flips a task's done flag and returns the updated project.
	SetTaskDone(ctx context.Context, projectID, taskID string, done bool) (*models.Project, error)

	// RemoveTask deletes a task from the sequence and returns the updated project.
	RemoveTask(ctx context.Context, projectID, taskID string) (*models.Project, error)
}

// Store is the full persistence surface used by the services.
// This abstraction allows swapping storage backends (SQLite, MongoDB)
// without changing the service layer.
type Store interface {
	ProductStore
	UserStore
	OrderStore
	ProjectStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
