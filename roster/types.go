/*
Package roster manages the employee roster and its reconciliation
against a canonical name list.

PURPOSE:
  Employees are created by roster sync or explicit add, and deleting one
  cascades over every activity cell recorded under its id. The package
  also owns the role-based visibility rule and the data-driven name
  normalization table (see config.go).

SEE ALSO:
  - reconcile.go: The five-step sync procedure
  - visibility.go: Role-based roster filtering
  - store/sqlite/sqlite.go: The durable Store implementation
*/
package roster

import (
	"context"
	"errors"
)

// Employee is a roster entry. Name is unique within the active roster.
// Password is an opaque credential blob compared by an external user
// store; this package never interprets it.
type Employee struct {
	ID       string
	Name     string
	Password string
}

// ErrDuplicateName is returned when an upsert would reuse an existing
// employee name under a different id.
var ErrDuplicateName = errors.New("employee name already exists")

// Store is the durable roster backend.
type Store interface {
	// List returns the roster ordered by name.
	List(ctx context.Context) ([]Employee, error)

	// Save upserts by id. A name collision with a different id fails
	// with ErrDuplicateName and changes nothing.
	Save(ctx context.Context, emp Employee) error

	// DeleteEmployee removes the employee and cascades over all activity
	// cells recorded under the id, across all dates. Returns the number
	// of cells removed.
	DeleteEmployee(ctx context.Context, id string) (int, error)
}
