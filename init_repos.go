// Package main: Repository katmanı başlatma.
package main

import (
	"database/sql"

	"github.com/akinalp/tohum/repository"
)

// Repositories, repository instance'larını tutan container struct.
type Repositories struct {
	User repository.UserRepository
}

// initRepositories, veritabanı bağlantısından repository'leri oluşturur.
// *sql.DB goroutine-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User: repository.NewSQLiteUserRepo(conn),
	}
}
