// Package main: Şema migration gate'i.
//
// Gate, server trafik almadan ÖNCE bir kez senkron çalışır.
// Hata dönerse main process'i durdurur: yarım şemayla servis başlamaz.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/akinalp/tohum/config"
	"github.com/akinalp/tohum/database"
	"github.com/akinalp/tohum/repository"
)

// runMigrationGate, şema metnini yükler ve gate'i uygular.
func runMigrationGate(ctx context.Context, db *database.DB, cfg config.SchemaConfig, rec database.OutcomeRecorder) (database.Outcome, error) {
	text, source, err := loadSchemaText(cfg.Path)
	if err != nil {
		return database.OutcomeUnchanged, err
	}

	var store database.SnapshotStore
	switch cfg.SnapshotStore {
	case config.SnapshotStoreDB:
		store, err = repository.NewSQLiteSnapshotRepo(ctx, db.Conn)
		if err != nil {
			return database.OutcomeUnchanged, err
		}
	default:
		store = database.NewFileSnapshotStore(cfg.SnapshotPath)
	}

	gate := &database.Gate{
		Store:            store,
		Exec:             db,
		SortByReferences: cfg.SortByReferences,
		Recorder:         rec,
	}

	outcome, err := gate.Apply(ctx, text)
	if err != nil {
		return outcome, fmt.Errorf("schema %s: %w", source, err)
	}

	log.Printf("[migrate] schema %s: %s (snapshot store=%s)", source, outcome, cfg.SnapshotStore)
	return outcome, nil
}

// loadSchemaText, path boşsa gömülü şemayı, değilse dosyayı döner.
func loadSchemaText(path string) (text, source string, err error) {
	if path == "" {
		return string(database.DefaultSchema), "embedded", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", path, fmt.Errorf("failed to read schema file: %w", err)
	}
	return string(data), path, nil
}
