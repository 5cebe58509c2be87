// Package main, tohum sunucusunun giriş noktasıdır.
//
// Bu dosyanın görevi, Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat
//  3. Metrics registry'sini kur
//  4. Migration gate'i çalıştır (trafik almadan önce, senkron)
//  5. Repository, service ve handler katmanlarını oluştur
//  6. AuthGuard'ı kur, route'ları bağla
//  7. CORS yapılandır
//  8. HTTP Server'ı başlat
//  9. Graceful shutdown
//
// Global değişken YOK; her şey newApp içinde oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akinalp/tohum/config"
	"github.com/akinalp/tohum/database"
	"github.com/akinalp/tohum/middleware"
	"github.com/akinalp/tohum/pkg/metrics"
	"github.com/akinalp/tohum/pkg/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
)

// App, kurulmuş uygulama: HTTP handler'ı ve kapatılması gereken kaynaklar.
type App struct {
	Handler  http.Handler
	DB       *database.DB
	Limiters *RateLimiters
	Metrics  *metrics.Metrics
}

// Close, arka plan goroutine'lerini durdurur ve DB bağlantısını kapatır.
func (a *App) Close() error {
	a.Limiters.Stop()
	return a.DB.Close()
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] tohum server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2-7. Wire-up ───
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := newApp(context.Background(), cfg, reg)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	defer app.Close()

	// ─── 8. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 9. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}

// newApp, config'den tüm katmanları kurar.
//
// Migration gate hata dönerse DB kapatılır ve hata yukarı çıkar:
// yarım şemayla handler oluşturulmaz.
func newApp(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*App, error) {
	// ─── 2. Database ───
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// ─── 3. Metrics ───
	m := metrics.New(reg)

	// ─── 4. Migration Gate ───
	if _, err := runMigrationGate(ctx, db, cfg.Schema, m); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration gate failed: %w", err)
	}

	// ─── 5. Repository / Service / Handler ───
	codec := token.NewCodec([]byte(cfg.Auth.Secret))

	repos := initRepositories(db.Conn)
	svcs, limiters := initServices(repos, cfg, codec)
	h := initHandlers(svcs, limiters, cfg, m)

	// ─── 6. AuthGuard + Routes ───
	guard := middleware.NewAuthGuard(codec, middleware.DefaultGuardConfig(cfg.Auth.CookieName), m)

	mux := http.NewServeMux()
	initRoutes(mux, h, guard, reg)

	// ─── 7. CORS ───
	// Origin listesi boşsa uygulama same-origin çalışır, middleware eklenmez.
	var handler http.Handler = mux
	if len(cfg.CORS.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler(mux)
	}

	return &App{Handler: handler, DB: db, Limiters: limiters, Metrics: m}, nil
}
