// Package main: HTTP route registration.
package main

import (
	"net/http"

	"github.com/akinalp/tohum/handlers"
	"github.com/akinalp/tohum/middleware"
	"github.com/akinalp/tohum/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// initRoutes, endpoint'leri mux'a bağlar.
//
// Sayfa loader'ları ve /api/hello AuthGuard ile sarılır; /login ve /signup
// guard config'inde anonymous-only olarak işaretlidir.
// "/{$}" sadece kök path'i eşler; "/" tek başına her path'i yakalardı.
func initRoutes(mux *http.ServeMux, h *Handlers, guard *middleware.AuthGuard, gatherer prometheus.Gatherer) {
	// ─── Auth API ───
	mux.HandleFunc("POST /api/signup", h.Auth.SignUp)
	mux.HandleFunc("POST /api/login", h.Auth.SignIn)
	mux.HandleFunc("POST /api/signout", h.Auth.SignOut)

	// ─── Korumalı API ───
	mux.Handle("GET /api/hello", guard.Guard(h.Pages.Hello))

	// ─── Sayfa loader'ları ───
	mux.Handle("GET /{$}", guard.Guard(h.Pages.Home))
	mux.Handle("GET /about", guard.Guard(h.Pages.About))
	mux.Handle("GET /login", guard.Guard(h.Pages.Login))
	mux.Handle("GET /signup", guard.Guard(h.Pages.Signup))

	// ─── Operasyon ───
	mux.HandleFunc("GET /api/health", handlers.Health)
	mux.Handle("GET /metrics", metrics.Handler(gatherer))
}
