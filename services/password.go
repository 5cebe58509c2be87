package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost, production hash maliyeti.
// Her +1 süreyi ikiye katlar; 12 ≈ 250ms.
const DefaultBcryptCost = 12

// PasswordHasher, düz metin şifreyi hash'ler ve doğrular.
// Auth katmanı düz şifreyi asla saklamaz veya doğrudan karşılaştırmaz.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher, verilen cost ile bcrypt hasher oluşturur.
// Geçersiz cost bcrypt.DefaultCost'a düşer.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify, şifre eşleşmiyorsa (false, nil) döner.
// Error sadece digest bozuksa döner.
func (h *bcryptHasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to verify password: %w", err)
}
