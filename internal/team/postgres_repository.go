package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS teams (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		image      TEXT NOT NULL,
		name       TEXT NOT NULL,
		name_key   TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE teams ADD COLUMN IF NOT EXISTS name_key TEXT NOT NULL DEFAULT '';
	UPDATE teams SET name_key = LOWER(name) WHERE name_key = '' AND name <> '';
	CREATE INDEX IF NOT EXISTS teams_created_at_idx ON teams (created_at)`

const teamColumns = `id, image, name, role, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Repository backed by the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the teams table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("creating teams schema: %w", err)
	}
	return nil
}

// Create inserts a new team record.
func (r *PostgresRepository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (image, name, name_key, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.Image, t.Name, nameKey(t.Name), t.Role).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// List retrieves a page of teams ordered newest first. A non-empty search
// restricts the result to names containing it, ignoring case.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.normalize()

	whereClause := ""
	var args []any
	if filter.Search != "" {
		whereClause = `WHERE name_key LIKE $1 ESCAPE '\'`
		args = append(args, containsPattern(filter.Search))
	}

	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM teams "+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting teams: %w", err)
	}

	dataQuery := fmt.Sprintf(`
		SELECT %s
		FROM teams
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, teamColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.offset())

	teams, err := r.scanMany(ctx, dataQuery, args...)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Teams: teams,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ListAll retrieves all teams ordered by creation time, oldest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY created_at ASC, id ASC`
	return r.scanMany(ctx, query)
}

// Update writes name and role, and image when fields.Image is set, in a
// single statement.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Team, error) {
	query := `
		UPDATE teams
		SET name = $1, name_key = $2, role = $3, image = COALESCE($4::text, image), updated_at = NOW()
		WHERE id = $5
		RETURNING ` + teamColumns

	return r.scanOne(ctx, query, fields.Name, nameKey(fields.Name), fields.Role, fields.Image, id)
}

// Delete removes a team by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// scanOne scans a single Team row from a query. Returns ErrTeamNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Team, error) {
	var t Team
	err := r.pool.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Image, &t.Name, &t.Role, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("scanning team row: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) scanMany(ctx context.Context, query string, args ...any) ([]Team, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Image, &t.Name, &t.Role, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}
