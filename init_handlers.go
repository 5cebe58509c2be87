// Package main: Handler katmanı başlatma.
package main

import (
	"github.com/akinalp/tohum/config"
	"github.com/akinalp/tohum/handlers"
	"github.com/akinalp/tohum/pkg/metrics"
)

// Handlers, handler instance'larını tutan container struct.
type Handlers struct {
	Auth  *handlers.AuthHandler
	Pages *handlers.PageHandler
}

// initHandlers, handler'ları service ve rate limiter dependency'leri ile oluşturur.
func initHandlers(svcs *Services, limiters *RateLimiters, cfg *config.Config, m *metrics.Metrics) *Handlers {
	return &Handlers{
		Auth:  handlers.NewAuthHandler(svcs.Auth, limiters.SignIn, cfg.Auth.CookieName, m),
		Pages: handlers.NewPageHandler(),
	}
}
