// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir. errors.New() ile sabit error değişkenleri
// tanımlanır, karşılaştırma string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrAlreadyExists) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")

	// ErrInvalidSchema, şema açıklaması parse edilemediğinde veya yapısal olarak
	// hatalı olduğunda döner. Startup sırasında fatal'dır.
	ErrInvalidSchema = errors.New("invalid schema")
)
