// Package main: Service katmanı başlatma.
package main

import (
	"github.com/akinalp/tohum/config"
	"github.com/akinalp/tohum/pkg/ratelimit"
	"github.com/akinalp/tohum/pkg/token"
	"github.com/akinalp/tohum/services"
)

// Services, service instance'larını tutan container struct.
type Services struct {
	Auth services.AuthService
}

// RateLimiters, rate limiter instance'larını tutan container.
type RateLimiters struct {
	SignIn *ratelimit.SignInLimiter
}

// Stop, limiter'ların arka plan goroutine'lerini durdurur.
func (l *RateLimiters) Stop() {
	if l.SignIn != nil {
		l.SignIn.Stop()
	}
}

// initServices, service'leri ve rate limiter'ları oluşturur.
// codec hem AuthService (imzalama) hem AuthGuard (doğrulama) tarafından paylaşılır.
func initServices(repos *Repositories, cfg *config.Config, codec *token.Codec) (*Services, *RateLimiters) {
	authService := services.NewAuthService(
		repos.User,
		services.NewBcryptHasher(cfg.Auth.BcryptCost),
		codec,
		services.AuthOptions{TokenLifetime: cfg.Auth.TokenLifetime},
	)

	var signInLimiter *ratelimit.SignInLimiter
	if cfg.RateLimit.SignInAttempts > 0 {
		signInLimiter = ratelimit.NewSignInLimiter(cfg.RateLimit.SignInAttempts, cfg.RateLimit.SignInWindow)
	}

	return &Services{Auth: authService}, &RateLimiters{SignIn: signInLimiter}
}
