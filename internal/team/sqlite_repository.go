package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id         TEXT PRIMARY KEY,
		image      TEXT NOT NULL,
		name       TEXT NOT NULL,
		name_key   TEXT NOT NULL,
		role       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS teams_created_at_idx ON teams (created_at)`,
}

// SQLiteRepository implements Repository on a database/sql handle opened
// with the modernc.org/sqlite driver. Timestamps are stored as unix millis;
// rowid breaks created_at ties so insertion order stays stable.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new Repository backed by the given SQLite handle.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// EnsureSchema creates the teams table if it does not exist.
func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating teams schema: %w", err)
		}
	}
	return nil
}

// Create inserts a new team record, assigning its ID and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, t *Team) error {
	id := uuid.New()
	now := r.now().UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, image, name, name_key, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), t.Image, t.Name, nameKey(t.Name), t.Role, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id.String())
	return scanSQLiteTeam(row)
}

// List retrieves a page of teams ordered newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.normalize()

	whereClause := ""
	var args []any
	if filter.Search != "" {
		whereClause = `WHERE name_key LIKE ? ESCAPE '\'`
		args = append(args, containsPattern(filter.Search))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM teams "+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting teams: %w", err)
	}

	query := `SELECT ` + teamColumns + ` FROM teams ` + whereClause +
		` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.offset())

	teams, err := r.queryMany(ctx, query, args...)
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

// ListAll retrieves all teams, oldest first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]Team, error) {
	return r.queryMany(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY created_at ASC, rowid ASC`)
}

// Update writes name and role, and image when fields.Image is set.
func (r *SQLiteRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Team, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE teams
		SET name = ?, name_key = ?, role = ?, image = COALESCE(?, image), updated_at = ?
		WHERE id = ?
		RETURNING `+teamColumns,
		fields.Name, nameKey(fields.Name), fields.Role, fields.Image, r.now().UTC().UnixMilli(), id.String(),
	)
	return scanSQLiteTeam(row)
}

// Delete removes a team by its UUID.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	if n == 0 {
		return ErrTeamNotFound
	}

	return nil
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		t, err := scanSQLiteTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTeam(row rowScanner) (*Team, error) {
	var (
		t                    Team
		id                   string
		createdAt, updatedAt int64
	)
	err := row.Scan(&id, &t.Image, &t.Name, &t.Role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("scanning team row: %w", err)
	}

	t.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing team id %q: %w", id, err)
	}
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	t.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &t, nil
}
