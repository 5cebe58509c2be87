package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/tohum/database"
)

// sqliteSnapshotRepo, snapshot'ı tek satırlık schema_snapshots tablosunda tutar.
//
// Bu tablo derlenen şemanın parçası DEĞİLDİR: gate'in DROP TABLE'ları
// ona dokunmaz, böylece snapshot rebuild'den sağ çıkar.
type sqliteSnapshotRepo struct {
	db database.TxQuerier
}

// NewSQLiteSnapshotRepo, schema_snapshots tablosunu (yoksa) oluşturur.
func NewSQLiteSnapshotRepo(ctx context.Context, db database.TxQuerier) (SnapshotRepository, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_snapshots (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			body TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_snapshots table: %w", err)
	}
	return &sqliteSnapshotRepo{db: db}, nil
}

func (r *sqliteSnapshotRepo) Load(ctx context.Context) (*string, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM schema_snapshots WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schema snapshot: %w", err)
	}
	return &body, nil
}

func (r *sqliteSnapshotRepo) Save(ctx context.Context, text string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schema_snapshots (id, body) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, applied_at = CURRENT_TIMESTAMP`,
		text,
	)
	if err != nil {
		return fmt.Errorf("failed to save schema snapshot: %w", err)
	}
	return nil
}
