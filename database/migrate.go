package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/akinalp/tohum/schema"
)

// Outcome, Gate.Apply'ın sonucu.
type Outcome int

const (
	// OutcomeUnchanged: şema metni snapshot ile birebir aynı, hiçbir şey çalıştırılmadı.
	OutcomeUnchanged Outcome = iota
	// OutcomeApplied: şema derlendi, statement'lar çalıştırıldı, snapshot güncellendi.
	OutcomeApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeApplied:
		return "applied"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// HasChanged, şema metninin son uygulanan snapshot'tan farklı olup olmadığını döner.
//
// Karşılaştırma byte byte yapılır; sadece whitespace farkı da "değişti" sayılır.
// previous nil ise (hiç snapshot yok) her zaman true.
func HasChanged(previous *string, current string) bool {
	if previous == nil {
		return true
	}
	return *previous != current
}

// SnapshotStore, son uygulanan şema metnini saklar.
//
// Load, snapshot yoksa (nil, nil) döner. Save mevcut snapshot'ı tamamen ezer.
type SnapshotStore interface {
	Load(ctx context.Context) (*string, error)
	Save(ctx context.Context, text string) error
}

// Executor, derlenmiş DDL statement'larını sırayla çalıştırır.
// *DB.ExecAll bunu karşılar.
type Executor interface {
	ExecAll(ctx context.Context, statements []string) error
}

// ExecutorFunc, bir fonksiyonu Executor'a çevirir (http.HandlerFunc gibi).
type ExecutorFunc func(ctx context.Context, statements []string) error

// ExecAll, Executor interface'ini karşılar.
func (f ExecutorFunc) ExecAll(ctx context.Context, statements []string) error {
	return f(ctx, statements)
}

// OutcomeRecorder, gate sonuçlarını metrics'e yazar. nil olabilir.
type OutcomeRecorder interface {
	RecordMigration(result string)
}

// Gate, şema metni değiştiyse derleyip uygular.
//
// Startup'ta, server trafik almadan ÖNCE bir kez senkron çalışır.
// Hata fatal'dır: yarım şemayla servis başlamamalı.
type Gate struct {
	Store SnapshotStore
	Exec  Executor

	// SortByReferences, derlemeden önce modelleri FK referanslarına göre sıralar.
	SortByReferences bool

	Recorder OutcomeRecorder
}

// Apply, gate'i çalıştırır:
//
//	snapshot yükle → değişmediyse OutcomeUnchanged
//	parse → (sort) → compile → tek transaction'da çalıştır → snapshot kaydet → OutcomeApplied
//
// Herhangi bir adım başarısız olursa snapshot YAZILMAZ; bir sonraki
// açılışta aynı metin tekrar denenir.
func (g *Gate) Apply(ctx context.Context, current string) (Outcome, error) {
	outcome, err := g.apply(ctx, current)
	if g.Recorder != nil {
		if err != nil {
			g.Recorder.RecordMigration("failed")
		} else {
			g.Recorder.RecordMigration(outcome.String())
		}
	}
	return outcome, err
}

func (g *Gate) apply(ctx context.Context, current string) (Outcome, error) {
	previous, err := g.Store.Load(ctx)
	if err != nil {
		return OutcomeUnchanged, fmt.Errorf("failed to load schema snapshot: %w", err)
	}

	if !HasChanged(previous, current) {
		log.Println("[migrate] schema unchanged, skipping")
		return OutcomeUnchanged, nil
	}

	s, err := schema.Parse([]byte(current))
	if err != nil {
		return OutcomeUnchanged, err
	}

	if g.SortByReferences {
		sorted, err := schema.SortByReferences(s)
		if err != nil {
			// Döngü fatal değil: SQLite CREATE sırasında FK hedefini kontrol etmez,
			// sıralama sadece eager kontrol yapan engine'ler için.
			if !errors.Is(err, schema.ErrReferenceCycle) {
				return OutcomeUnchanged, err
			}
			log.Printf("[migrate] %v, keeping description order", err)
		}
		s = sorted
	}

	statements, err := schema.Compile(s)
	if err != nil {
		return OutcomeUnchanged, err
	}

	if err := g.Exec.ExecAll(ctx, statements); err != nil {
		return OutcomeUnchanged, fmt.Errorf("failed to apply schema: %w", err)
	}

	if err := g.Store.Save(ctx, current); err != nil {
		return OutcomeUnchanged, fmt.Errorf("failed to save schema snapshot: %w", err)
	}

	log.Printf("[migrate] schema applied (%d models, %d statements)", len(s.Models), len(statements))
	return OutcomeApplied, nil
}

// FileSnapshotStore, snapshot'ı düz bir metin dosyasında tutar.
type FileSnapshotStore struct {
	Path string
}

// NewFileSnapshotStore, yeni bir FileSnapshotStore oluşturur.
func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{Path: path}
}

// Load, dosya varsa içeriğini döner; yoksa (nil, nil).
func (s *FileSnapshotStore) Load(_ context.Context) (*string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.Path, err)
	}
	text := string(data)
	return &text, nil
}

// Save, snapshot'ı geçici dosyaya yazıp rename eder.
// Yazma yarıda kesilirse eski snapshot bozulmadan kalır.
func (s *FileSnapshotStore) Save(_ context.Context, text string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
