// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı SQL yazmaz; repository interface'leri üzerinden çalışır.
// Implementasyonlar database.TxQuerier alır: normalde *sql.DB,
// transaction içinde *sql.Tx geçilebilir.
package repository

import (
	"context"

	"github.com/akinalp/tohum/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	// ExistsByEmail, email ile kayıtlı kullanıcı olup olmadığını döner.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create, kullanıcıyı ekler; user.ID ve user.CreatedAt doldurulur.
	// Email zaten varsa pkg.ErrAlreadyExists döner.
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
