// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur: func(next http.Handler) http.Handler.
// Kendi işini yapar, sonra next'i çağırır; hata varsa çağırmaz ve request burada durur.
package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/akinalp/tohum/models"
	"github.com/akinalp/tohum/pkg"
	"github.com/akinalp/tohum/pkg/token"
)

// TokenVerifier, session cookie'sindeki token'ı doğrular. *token.Codec bunu karşılar.
type TokenVerifier interface {
	Verify(tokenString string) token.Result
}

// DecisionRecorder, guard kararlarını metrics'e yazar.
type DecisionRecorder interface {
	RecordGuardDecision(reason string)
}

// Reason, guard kararının iç nedeni.
//
// Dışarıya (response'a) yansımaz: korumalı path'lerde Authenticated dışındaki
// her neden aynı sign-in redirect'ine çöker. Ayrım sadece log ve metrics içindir.
type Reason int

const (
	ReasonAuthenticated Reason = iota
	ReasonAbsent               // cookie yok veya boş
	ReasonMalformed            // segment sayısı, base64, JSON veya verifier panic
	ReasonTampered             // imza eşleşmedi
	ReasonExpired              // exp <= now veya exp yok
)

func (r Reason) String() string {
	switch r {
	case ReasonAuthenticated:
		return "authenticated"
	case ReasonAbsent:
		return "absent"
	case ReasonMalformed:
		return "malformed"
	case ReasonTampered:
		return "tampered"
	case ReasonExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Decision, bir request için guard kararı.
// Claims sadece ReasonAuthenticated'da dolu.
type Decision struct {
	Reason Reason
	Claims models.Claims
}

// GuardConfig, AuthGuard ayarları. Startup'ta config'den kurulur.
type GuardConfig struct {
	CookieName  string
	SignInPath  string
	LandingPath string
	// AnonymousOnly, oturum açıkken görülmemesi gereken path'ler (giriş, kayıt).
	AnonymousOnly []string
	// Now, saat kaynağı. nil ise time.Now.
	Now func() time.Time
}

// DefaultGuardConfig, /login ve /signup'ı anonymous-only sayan varsayılan ayarlar.
func DefaultGuardConfig(cookieName string) GuardConfig {
	return GuardConfig{
		CookieName:    cookieName,
		SignInPath:    "/login",
		LandingPath:   "/",
		AnonymousOnly: []string{"/login", "/signup"},
	}
}

// ClaimsHandler, doğrulanmış claims'i (veya anonim için nil) alan handler.
type ClaimsHandler func(w http.ResponseWriter, r *http.Request, claims models.Claims)

// AuthGuard, session cookie'sine göre request'i geçirir veya yönlendirir.
// Sadece read-only config paylaşır; eşzamanlı kullanım güvenlidir.
type AuthGuard struct {
	verifier      TokenVerifier
	cfg           GuardConfig
	anonymousOnly map[string]bool
	now           func() time.Time
	recorder      DecisionRecorder
}

// NewAuthGuard, constructor. recorder nil olabilir.
func NewAuthGuard(verifier TokenVerifier, cfg GuardConfig, recorder DecisionRecorder) *AuthGuard {
	anon := make(map[string]bool, len(cfg.AnonymousOnly))
	for _, p := range cfg.AnonymousOnly {
		anon[p] = true
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &AuthGuard{
		verifier:      verifier,
		cfg:           cfg,
		anonymousOnly: anon,
		now:           now,
		recorder:      recorder,
	}
}

// Evaluate, request'in session cookie'sini inceler.
//
// Verifier panic atarsa recover edilir ve ReasonMalformed döner:
// doğrulama hatası hiçbir durumda transport katmanına sızmaz.
func (g *AuthGuard) Evaluate(r *http.Request) (d Decision) {
	cookie, err := r.Cookie(g.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return Decision{Reason: ReasonAbsent}
	}

	defer func() {
		if p := recover(); p != nil {
			log.Printf("[auth] token verification panicked: %v", p)
			d = Decision{Reason: ReasonMalformed}
		}
	}()

	res := g.verifier.Verify(cookie.Value)
	switch res.Reason {
	case token.ReasonOK:
	case token.ReasonBadSignature:
		return Decision{Reason: ReasonTampered}
	default:
		return Decision{Reason: ReasonMalformed}
	}

	if res.Claims.Expired(g.now()) {
		return Decision{Reason: ReasonExpired}
	}

	return Decision{Reason: ReasonAuthenticated, Claims: res.Claims}
}

// Guard, h'yi session politikasıyla sarar.
//
// Anonymous-only path'ler (ör: /login):
//   - geçerli oturum      → LandingPath'e 302
//   - malformed token     → cookie silinir, SignInPath'e 302
//   - diğer her durum     → h(w, r, nil)
//
// Diğer tüm path'ler:
//   - geçerli oturum      → h(w, r, claims), claims context'e de eklenir
//   - diğer her durum     → SignInPath'e 302 (absent/tampered/expired ayırt edilmez)
//
// Malformed token'da cookie silinmezse /login → /login sonsuz yönlendirme döngüsü oluşur.
func (g *AuthGuard) Guard(h ClaimsHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Evaluate(r)
		if g.recorder != nil {
			g.recorder.RecordGuardDecision(d.Reason.String())
		}

		if g.anonymousOnly[r.URL.Path] {
			switch d.Reason {
			case ReasonAuthenticated:
				pkg.Redirect(w, g.cfg.LandingPath)
			case ReasonMalformed:
				pkg.ClearSessionCookie(w, g.cfg.CookieName)
				pkg.Redirect(w, g.cfg.SignInPath)
			default:
				h(w, r, nil)
			}
			return
		}

		if d.Reason != ReasonAuthenticated {
			pkg.Redirect(w, g.cfg.SignInPath)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, d.Claims)
		h(w, r.WithContext(ctx), d.Claims)
	})
}

// contextKey, context key çakışmasını önlemek için özel tip.
type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext, Guard'ın context'e eklediği claims'i döner.
func ClaimsFromContext(ctx context.Context) (models.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(models.Claims)
	return claims, ok && claims != nil
}
