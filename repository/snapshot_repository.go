package repository

import "context"

// SnapshotRepository, son uygulanan şema metnini veritabanında saklar.
// database.SnapshotStore interface'ini karşılar.
type SnapshotRepository interface {
	// Load, kayıt yoksa (nil, nil) döner.
	Load(ctx context.Context) (*string, error)
	Save(ctx context.Context, text string) error
}
