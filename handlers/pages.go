package handlers

import (
	"fmt"
	"net/http"

	"github.com/akinalp/tohum/models"
	"github.com/akinalp/tohum/pkg"
)

// PageProps, bir sayfa loader'ının döndüğü veri.
// Render client tarafında yapılır; sunucu sadece props'u JSON olarak verir.
type PageProps struct {
	Page string         `json:"page"`
	User *SessionUser   `json:"user,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// SessionUser, claims'ten sayfaya taşınan kullanıcı bilgisi.
type SessionUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// PageHandler, sayfa loader'ları. Hepsi middleware.ClaimsHandler imzasındadır
// ve AuthGuard ile sarılır.
type PageHandler struct{}

// NewPageHandler, constructor.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home godoc
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request, claims models.Claims) {
	pkg.JSON(w, http.StatusOK, PageProps{Page: "home", User: sessionUser(claims)})
}

// About godoc
// GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request, claims models.Claims) {
	pkg.JSON(w, http.StatusOK, PageProps{
		Page: "about",
		User: sessionUser(claims),
		Data: map[string]any{"message": "This text is from a loader."},
	})
}

// Login godoc
// GET /login (anonymous-only; claims her zaman nil)
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request, _ models.Claims) {
	pkg.JSON(w, http.StatusOK, PageProps{Page: "login"})
}

// Signup godoc
// GET /signup (anonymous-only)
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request, _ models.Claims) {
	pkg.JSON(w, http.StatusOK, PageProps{Page: "signup"})
}

// Hello godoc
// GET /api/hello (korumalı)
func (h *PageHandler) Hello(w http.ResponseWriter, r *http.Request, claims models.Claims) {
	email, _ := claims.Email()
	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello, %s!", email),
	})
}

// Health godoc
// GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func sessionUser(claims models.Claims) *SessionUser {
	if claims == nil {
		return nil
	}
	id, _ := claims.UserID()
	email, _ := claims.Email()
	return &SessionUser{ID: id, Email: email}
}
