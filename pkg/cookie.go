package pkg

import "net/http"

// SetSessionCookie, session token'ını cookie olarak yazar.
//
// Attribute'ler: HttpOnly (JS erişemez), Path=/, Max-Age=<saniye>, SameSite=Lax.
// Secure flag'i eklenmez: starter local HTTP üzerinde de çalışmalı;
// production'da TLS terminasyonu reverse proxy'dedir.
func SetSessionCookie(w http.ResponseWriter, name, token string, maxAgeSeconds int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie, aynı isimle boş değerli ve Max-Age=0 cookie yazar:
// tarayıcı cookie'yi hemen siler.
//
// net/http'de MaxAge=0 "attribute yok" demektir; negatif değer "Max-Age=0" üretir.
func ClearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
