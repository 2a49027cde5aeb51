package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// Repository provides CRUD operations on the teams table.
type Repository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	// List returns one page of teams, newest first, optionally filtered by name.
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	// ListAll returns every team, oldest first.
	ListAll(ctx context.Context) ([]Team, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
