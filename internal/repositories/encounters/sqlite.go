package encounters

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/roster"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS encounters (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	snapshot   TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// modernc.org/sqlite applies each _pragma on every new connection
const sqlitePragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// SQLiteRepository persists encounters in a SQLite file
type SQLiteRepository struct {
	sqlDB *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens (creating if needed) the encounter database at path
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("storage path is required")
	}
	dsn := filepath.Clean(path) + sqlitePragmas
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "ping sqlite db")
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "create encounters table")
	}
	return &SQLiteRepository{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *SQLiteRepository) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts or replaces an encounter. The original creation time is kept.
func (s *SQLiteRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "save encounter")
	}
	if err := validateSave(input); err != nil {
		return nil, err
	}

	e := input.Encounter
	snapshot, err := json.Marshal(e.Snapshot)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal snapshot")
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO encounters (id, name, snapshot, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   snapshot = excluded.snapshot,
		   updated_at = excluded.updated_at`,
		e.ID,
		e.Name,
		string(snapshot),
		toMillis(e.CreatedAt),
		toMillis(e.UpdatedAt),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "save encounter %s", e.ID)
	}
	return &SaveOutput{}, nil
}

// Get returns one encounter by ID
func (s *SQLiteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "get encounter")
	}
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, snapshot, created_at, updated_at FROM encounters WHERE id = ?`,
		input.ID,
	)
	encounter, err := scanEncounter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(input.ID)
		}
		return nil, err
	}
	return &GetOutput{Encounter: encounter}, nil
}

// List returns every encounter, oldest first
func (s *SQLiteRepository) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "list encounters")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, snapshot, created_at, updated_at FROM encounters ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list encounters")
	}
	defer func() { _ = rows.Close() }()

	encounters := []*EncounterData{}
	for rows.Next() {
		encounter, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		encounters = append(encounters, encounter)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate encounters")
	}
	return &ListOutput{Encounters: encounters}, nil
}

// Delete removes an encounter
func (s *SQLiteRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "delete encounter")
	}
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM encounters WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "delete encounter %s", input.ID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrapf(err, "delete encounter %s", input.ID)
	}
	if affected == 0 {
		return nil, notFound(input.ID)
	}
	return &DeleteOutput{}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEncounter(row rowScanner) (*EncounterData, error) {
	var (
		e         EncounterData
		snapshot  string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&e.ID, &e.Name, &snapshot, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scan encounter")
	}

	var snap roster.Snapshot
	if err := json.Unmarshal([]byte(snapshot), &snap); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeDataLoss, "decode snapshot of encounter %s", e.ID)
	}
	e.Snapshot = &snap
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	return &e, nil
}
