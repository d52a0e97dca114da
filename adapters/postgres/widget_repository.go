package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tilemetry/domain/core"
	"tilemetry/domain/widget"
	"tilemetry/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS widgets (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	source_file TEXT NOT NULL DEFAULT '',
	mapping     JSONB NOT NULL,
	style       TEXT NOT NULL,
	top_n       INT NOT NULL DEFAULT 0,
	palette     JSONB,
	notes       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
)`

// widgetRepository implements ports.WidgetRepository on postgres
type widgetRepository struct {
	db *sqlx.DB
}

// NewWidgetRepository creates a widget repository and ensures its schema.
func NewWidgetRepository(db *sqlx.DB) (ports.WidgetRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure widgets schema: %w", err)
	}
	return &widgetRepository{db: db}, nil
}

// Create inserts a new widget config
func (r *widgetRepository) Create(ctx context.Context, cfg *widget.Config) error {
	mappingJSON, err := json.Marshal(cfg.Mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}
	paletteJSON, err := json.Marshal(cfg.Palette)
	if err != nil {
		return fmt.Errorf("failed to marshal palette: %w", err)
	}

	query := `INSERT INTO widgets (
		id, name, source_file, mapping, style, top_n, palette, notes, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)`

	_, err = r.db.ExecContext(ctx, query,
		cfg.ID, cfg.Name, cfg.SourceFile, mappingJSON, cfg.Style,
		cfg.TopN, paletteJSON, cfg.Notes, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create widget: %w", err)
	}
	return nil
}

// GetByID retrieves a widget config by its ID
func (r *widgetRepository) GetByID(ctx context.Context, id core.WidgetID) (*widget.Config, error) {
	query := `SELECT
		id, name, source_file, mapping, style, top_n, palette, notes, created_at, updated_at
	FROM widgets WHERE id = $1`

	cfg, err := scanWidget(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("widget", id.String())
		}
		return nil, fmt.Errorf("failed to get widget: %w", err)
	}
	return cfg, nil
}

// List returns all widget configs ordered by creation time
func (r *widgetRepository) List(ctx context.Context) ([]*widget.Config, error) {
	query := `SELECT
		id, name, source_file, mapping, style, top_n, palette, notes, created_at, updated_at
	FROM widgets ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list widgets: %w", err)
	}
	defer rows.Close()

	var configs []*widget.Config
	for rows.Next() {
		cfg, err := scanWidget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan widget: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// Update saves changes to an existing widget config
func (r *widgetRepository) Update(ctx context.Context, cfg *widget.Config) error {
	mappingJSON, err := json.Marshal(cfg.Mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}
	paletteJSON, err := json.Marshal(cfg.Palette)
	if err != nil {
		return fmt.Errorf("failed to marshal palette: %w", err)
	}

	query := `UPDATE widgets SET
		name = $2, source_file = $3, mapping = $4, style = $5,
		top_n = $6, palette = $7, notes = $8, updated_at = $9
	WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		cfg.ID, cfg.Name, cfg.SourceFile, mappingJSON, cfg.Style,
		cfg.TopN, paletteJSON, cfg.Notes, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update widget: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return core.NewNotFoundError("widget", cfg.ID.String())
	}
	return nil
}

// Delete removes a widget config
func (r *widgetRepository) Delete(ctx context.Context, id core.WidgetID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM widgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete widget: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWidget(row rowScanner) (*widget.Config, error) {
	var cfg widget.Config
	var mappingJSON, paletteJSON []byte

	err := row.Scan(
		&cfg.ID, &cfg.Name, &cfg.SourceFile, &mappingJSON, &cfg.Style,
		&cfg.TopN, &paletteJSON, &cfg.Notes, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mappingJSON, &cfg.Mapping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mapping: %w", err)
	}
	if len(paletteJSON) > 0 {
		if err := json.Unmarshal(paletteJSON, &cfg.Palette); err != nil {
			return nil, fmt.Errorf("failed to unmarshal palette: %w", err)
		}
	}
	return &cfg, nil
}
