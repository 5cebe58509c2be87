// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Secret, cookie adı ve token ömrü burada yaşar; TokenCodec, AuthGuard ve
// AuthService bunları constructor'da alır, paket seviyesinde sabit yoktur.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Snapshot store türleri.
const (
	SnapshotStoreFile = "file"
	SnapshotStoreDB   = "db"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Schema    SchemaConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/tohum.db)
}

// AuthConfig, session token ayarları.
type AuthConfig struct {
	Secret        string // Token imzalama anahtarı, GİZLİ TUTULMALI
	TokenLifetime time.Duration
	CookieName    string
	BcryptCost    int
}

// SchemaConfig, migration gate ayarları.
type SchemaConfig struct {
	Path             string // boşsa binary'ye gömülü schema.yaml
	SnapshotStore    string // "file" | "db"
	SnapshotPath     string // SnapshotStore "file" ise
	SortByReferences bool
}

// RateLimitConfig, sign-in limiter ayarları.
type RateLimitConfig struct {
	SignInAttempts int
	SignInWindow   time.Duration
}

// CORSConfig, izin verilen origin'ler. Boşsa CORS middleware'ı eklenmez.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler; yoksa sessizce devam eder.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("SERVER_PORT", 3000)
	if err != nil {
		return nil, err
	}

	lifetime, err := getInt("AUTH_TOKEN_LIFETIME_SECONDS", 3600)
	if err != nil {
		return nil, err
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_LIFETIME_SECONDS: must be positive")
	}

	cost, err := getInt("AUTH_BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}

	attempts, err := getInt("SIGNIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}

	window, err := getInt("SIGNIN_WINDOW_SECONDS", 120)
	if err != nil {
		return nil, err
	}

	sortRefs, err := strconv.ParseBool(getEnv("SCHEMA_SORT_BY_REFERENCES", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEMA_SORT_BY_REFERENCES: %w", err)
	}

	store := strings.ToLower(getEnv("SCHEMA_SNAPSHOT_STORE", SnapshotStoreFile))
	if store != SnapshotStoreFile && store != SnapshotStoreDB {
		return nil, fmt.Errorf("invalid SCHEMA_SNAPSHOT_STORE %q: use %q or %q", store, SnapshotStoreFile, SnapshotStoreDB)
	}

	secret := getEnv("AUTH_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/tohum.db"),
		},
		Auth: AuthConfig{
			Secret:        secret,
			TokenLifetime: time.Duration(lifetime) * time.Second,
			CookieName:    getEnv("AUTH_COOKIE_NAME", "token"),
			BcryptCost:    cost,
		},
		Schema: SchemaConfig{
			Path:             getEnv("SCHEMA_PATH", ""),
			SnapshotStore:    store,
			SnapshotPath:     getEnv("SCHEMA_SNAPSHOT_PATH", "./data/schema.snapshot"),
			SortByReferences: sortRefs,
		},
		RateLimit: RateLimitConfig{
			SignInAttempts: attempts,
			SignInWindow:   time.Duration(window) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:3000").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// splitList, virgülle ayrılmış listeyi boşlukları atarak böler.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
