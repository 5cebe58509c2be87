// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler ince olmalı: form'u parse et, service'i çağır, sonucu HTTP'ye çevir.
// İş mantığı service'te, SQL repository'de yaşar.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/akinalp/tohum/models"
	"github.com/akinalp/tohum/pkg"
	"github.com/akinalp/tohum/pkg/ratelimit"
	"github.com/akinalp/tohum/services"
)

// maxFormBytes, auth form'ları için body sınırı.
const maxFormBytes = 64 << 10

// SignInRecorder, giriş denemelerini metrics'e yazar. *metrics.Metrics bunu karşılar.
type SignInRecorder interface {
	RecordSignIn(result string)
}

// AuthHandler, sign-up / sign-in / sign-out endpoint'leri.
type AuthHandler struct {
	authService services.AuthService
	limiter     *ratelimit.SignInLimiter
	cookieName  string
	recorder    SignInRecorder
}

// NewAuthHandler, constructor.
// limiter nil ise rate limiting kapalı, recorder nil ise metrics yazılmaz.
func NewAuthHandler(
	authService services.AuthService,
	limiter *ratelimit.SignInLimiter,
	cookieName string,
	recorder SignInRecorder,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
		cookieName:  cookieName,
		recorder:    recorder,
	}
}

// SignUp godoc
// POST /api/signup (form: email, username, password)
//
// Başarılı → 302 /login, başarısız → 302 /signup.
// Hata nedeni yanıtta taşınmaz; sadece loglanır.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	req := models.SignUpRequest{
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	if _, err := h.authService.SignUp(r.Context(), &req); err != nil {
		if errors.Is(err, pkg.ErrBadRequest) || errors.Is(err, pkg.ErrAlreadyExists) {
			log.Printf("[auth] sign up rejected: %v", err)
		} else {
			log.Printf("[auth] sign up failed: %v", err)
		}
		pkg.Redirect(w, "/signup")
		return
	}

	pkg.Redirect(w, "/login")
}

// SignIn godoc
// POST /api/login (form: email, password)
//
// Başarılı → session cookie + 302 /.
// Bilinmeyen email veya yanlış şifre → 400 "invalid credentials".
// IP bazlı limit aşıldıysa → 429 + Retry-After.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if h.limiter != nil && !h.limiter.Allow(ip) {
		h.record("rate_limited")
		retryAfter := h.limiter.RetryAfter(ip)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			"too many sign-in attempts, please try again in "+ratelimit.FormatRetryMessage(retryAfter))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	req := models.SignInRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	session, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		if errors.Is(err, pkg.ErrUnauthorized) {
			h.record("invalid_credentials")
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		h.record("error")
		log.Printf("[auth] sign in failed: %v", err)
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.limiter != nil {
		h.limiter.Reset(ip)
	}
	h.record("success")

	pkg.SetSessionCookie(w, h.cookieName, session.Token, session.MaxAge)
	pkg.Redirect(w, "/")
}

// SignOut godoc
// POST /api/signout
//
// Token stateless'tır, sunucuda iptal edilecek bir şey yok:
// cookie Max-Age=0 ile silinir ve /login'e yönlendirilir.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	pkg.ClearSessionCookie(w, h.cookieName)
	pkg.Redirect(w, "/login")
}

func (h *AuthHandler) record(result string) {
	if h.recorder != nil {
		h.recorder.RecordSignIn(result)
	}
}
