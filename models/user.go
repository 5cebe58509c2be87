// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Veritabanındaki bir tablonun Go karşılığıdır.
// Aynı zamanda form'dan gelen verilerin şeklini de belirler.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailRegex, basit email format kontrolü. RFC 5322'nin tamamı değil:
// "bir @ ve bir nokta" seviyesinde yeterli.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// maxPasswordBytes, bcrypt'in işleyebildiği maksimum şifre uzunluğu.
// 72 byte'tan uzun şifreler bcrypt tarafından reddedilir.
const maxPasswordBytes = 72

// User, users tablosundaki bir satırı temsil eder.
//
// Tablo yapısı kod içinde değil, şema dosyasında (schema.yaml) tanımlanır:
// repository bu struct ile o tablo arasında köprü kurar.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // json:"-" → response'a DAHİL ETME
	CreatedAt    string `json:"created_at"`
}

// SignUpRequest, kayıt formundan gelen veri.
// Password düz metindir: hash'leme service katmanında yapılır.
type SignUpRequest struct {
	Email    string
	Username string
	Password string
}

// Validate, SignUpRequest'in geçerli olup olmadığını kontrol eder.
//   - Email: zorunlu, basit format kontrolü
//   - Username: 3-32 karakter
//   - Password: 8 karakter - 72 byte
func (r *SignUpRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}

	r.Username = strings.TrimSpace(r.Username)
	usernameLen := utf8.RuneCountInString(r.Username)
	if usernameLen < 3 || usernameLen > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(r.Password) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}

	return nil
}

// SignInRequest, giriş formundan gelen veri.
type SignInRequest struct {
	Email    string
	Password string
}

// Validate, SignInRequest'in boş alan içermediğini kontrol eder.
func (r *SignInRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
