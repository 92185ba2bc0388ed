package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pricepilot/model"
)

// WorkspaceStore holds the business profile and the dataset registry the
// assistant reads its request context from. It satisfies model.ContextSource.
type WorkspaceStore struct {
	db *sql.DB
}

func NewWorkspaceStore(dataDir string) (*WorkspaceStore, error) {
	dbPath := filepath.Join(dataDir, "workspace.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &WorkspaceStore{db: db}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (ws *WorkspaceStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS business_profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		uploaded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_datasets_uploaded_at ON datasets(uploaded_at);
	`

	if _, err := ws.db.Exec(schema); err != nil {
		return err
	}

	if err := ws.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds columns introduced after the first release.
func (ws *WorkspaceStore) migrateSchema() error {
	hasCurrency, err := ws.columnExists("business_profile", "currency")
	if err != nil {
		return fmt.Errorf("failed to check for currency column: %w", err)
	}

	if !hasCurrency {
		if _, err := ws.db.Exec(`ALTER TABLE business_profile ADD COLUMN currency TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("failed to add currency column: %w", err)
		}
	}

	return nil
}

func (ws *WorkspaceStore) columnExists(table, column string) (bool, error) {
	rows, err := ws.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}

	return false, rows.Err()
}

// Profile returns the stored business profile, or nil when none is set up.
func (ws *WorkspaceStore) Profile(ctx context.Context) (*model.BusinessProfile, error) {
	var p model.BusinessProfile
	err := ws.db.QueryRowContext(ctx,
		`SELECT name, city, country, currency FROM business_profile WHERE id = 1`,
	).Scan(&p.Name, &p.City, &p.Country, &p.Currency)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read business profile: %w", err)
	}

	return &p, nil
}

// SaveProfile creates or replaces the business profile.
func (ws *WorkspaceStore) SaveProfile(ctx context.Context, p model.BusinessProfile) error {
	_, err := ws.db.ExecContext(ctx, `
		INSERT INTO business_profile (id, name, city, country, currency, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			city = excluded.city,
			country = excluded.country,
			currency = excluded.currency,
			updated_at = excluded.updated_at
	`, p.Name, p.City, p.Country, p.Currency, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save business profile: %w", err)
	}
	return nil
}

func (ws *WorkspaceStore) ClearProfile(ctx context.Context) error {
	if _, err := ws.db.ExecContext(ctx, `DELETE FROM business_profile`); err != nil {
		return fmt.Errorf("failed to clear business profile: %w", err)
	}
	return nil
}

// Datasets lists uploaded datasets, oldest first.
func (ws *WorkspaceStore) Datasets(ctx context.Context) ([]model.Dataset, error) {
	rows, err := ws.db.QueryContext(ctx, `
		SELECT id, name, row_count, uploaded_at
		FROM datasets
		ORDER BY uploaded_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	var datasets []model.Dataset
	for rows.Next() {
		var ds model.Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.RowCount, &ds.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read datasets: %w", err)
	}

	return datasets, nil
}

// AddDataset registers a dataset. An empty ID gets a generated one and a
// zero UploadedAt is stamped with the current time.
func (ws *WorkspaceStore) AddDataset(ctx context.Context, ds model.Dataset) (model.Dataset, error) {
	if ds.ID == "" {
		ds.ID = uuid.New().String()
	}
	if ds.UploadedAt.IsZero() {
		ds.UploadedAt = time.Now()
	}
	if ds.RowCount < 0 {
		return model.Dataset{}, fmt.Errorf("invalid row count %d for dataset %s", ds.RowCount, ds.Name)
	}

	_, err := ws.db.ExecContext(ctx, `
		INSERT INTO datasets (id, name, row_count, uploaded_at)
		VALUES (?, ?, ?, ?)
	`, ds.ID, ds.Name, ds.RowCount, ds.UploadedAt)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to add dataset: %w", err)
	}

	return ds, nil
}

func (ws *WorkspaceStore) RemoveDataset(ctx context.Context, id string) error {
	res, err := ws.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove dataset: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove dataset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dataset not found: %s", id)
	}
	return nil
}

func (ws *WorkspaceStore) Close() error {
	return ws.db.Close()
}
