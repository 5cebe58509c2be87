// Package database, SQLite bağlantısını ve şema migration gate'ini yönetir.
//
// database/sql standart arayüzdür; driver blank import ile kayıt olur.
// modernc.org/sqlite pure-Go'dur, CGO gerekmez.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DB, veritabanı bağlantısını saran struct.
// *sql.DB connection pool'dur ve goroutine-safe'dir.
type DB struct {
	Conn *sql.DB
}

// New, SQLite bağlantısını açar.
//
// Tablo oluşturmaz: şema, startup'ta Gate.Apply ile schema.yaml'dan derlenir.
// "_pragma=foreign_keys(1)" → FK constraint'leri aktif (SQLite'ta varsayılan kapalı)
// "_pragma=journal_mode(WAL)" → eşzamanlı okuma/yazma
func New(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[database] connected: %s", dbPath)
	return &DB{Conn: conn}, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// ExecAll, statement'ları sırayla TEK bir transaction içinde çalıştırır.
// Gate'in Executor'ı budur.
//
// Biri başarısız olursa hepsi geri alınır: yarım uygulanmış şemayla
// servis başlamaz. defer_foreign_keys, DROP TABLE'ın diğer tablolardan
// gelen referanslar yüzünden patlamasını commit anına kadar erteler.
func (db *DB) ExecAll(ctx context.Context, statements []string) error {
	return WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to defer foreign keys: %w", err)
		}

		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d (%s): %w", i+1, firstLine(stmt), err)
			}
		}
		return nil
	})
}

// firstLine, hata mesajında tüm CREATE TABLE'ı basmamak için ilk satırı döner.
func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i] + " ..."
	}
	return stmt
}
