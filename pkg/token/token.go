// Package token, session token'larını imzalar ve doğrular.
//
// Format: base64url(header).base64url(claims).base64url(signature)
//
//   - header: sabit {"alg":"HS256","typ":"JWT"}
//   - claims: models.Claims'in JSON hali
//   - signature: HMAC-SHA256("header.claims", secret)
//
// Neden jwt.Parse kullanmıyoruz?
// Genel amaçlı parser registered claim'leri (exp, nbf, iat) kendisi kontrol eder
// ve farklı algoritmaları kabul edebilir. Burada codec sadece kriptografik
// bütünlükten sorumludur; exp kontrolü çağıranın (AuthGuard) işidir.
// golang-jwt'den sadece HMAC primitive'i (SigningMethodHS256) kullanılır:
// Verify içinde hmac.Equal ile constant-time karşılaştırma yapar.
//
// Paket hiçbir global state tutmaz; Codec eşzamanlı kullanım için güvenlidir.
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akinalp/tohum/models"
	"github.com/golang-jwt/jwt/v5"
)

// encodedHeader, her token'da aynı olan header segmenti. Bir kere hesaplanır.
var encodedHeader = encodeSegment([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Reason, doğrulama sonucunun nedenini belirtir.
type Reason int

const (
	// ReasonOK: imza geçerli, claims decode edildi.
	ReasonOK Reason = iota
	// ReasonMalformed: segment sayısı yanlış, base64 veya JSON bozuk.
	ReasonMalformed
	// ReasonBadSignature: yeniden hesaplanan imza eşleşmedi.
	ReasonBadSignature
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonMalformed:
		return "malformed"
	case ReasonBadSignature:
		return "bad_signature"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result, Verify'ın sonucu: Valid(claims) | Invalid(reason).
//
// Hata fırlatmak (panic) yerine sonuç değeri dönülür: çağıran taraf
// doğrulama hatasını yanlışlıkla transport katmanına sızdıramaz.
type Result struct {
	Claims models.Claims
	Reason Reason
}

// Valid, token kriptografik olarak geçerliyse true döner.
// Expire kontrolü YAPILMAZ.
func (r Result) Valid() bool {
	return r.Reason == ReasonOK
}

// Codec, tek bir secret ile token imzalayıp doğrular.
type Codec struct {
	secret []byte
}

// NewCodec, constructor. secret process boyunca sabittir.
func NewCodec(secret []byte) *Codec {
	// Çağıranın slice'ı sonradan değiştirmesi codec'i etkilemesin
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key}
}

// Sign, claims'i imzalayıp token string'i döner.
//
// Deterministiktir: aynı claims + secret her zaman aynı token'ı üretir
// (encoding/json map key'lerini sıralar, nonce/salt yoktur).
func (c *Codec) Sign(claims models.Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	signingString := encodedHeader + "." + encodeSegment(payload)

	sig, err := jwt.SigningMethodHS256.Sign(signingString, c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signingString + "." + encodeSegment(sig), nil
}

// Verify, token'ı doğrular ve claims'i döner.
//
// Adımlar:
// 1. Nokta ile 3 segmente böl: farklı sayıda segment → malformed
// 2. İmza segmentini decode et: bozuk base64 → malformed
// 3. İlk iki segment üzerinden HMAC'i yeniden hesapla ve karşılaştır → bad signature
// 4. Claims segmentini base64 + JSON decode et → malformed
func (c *Codec) Verify(tokenString string) Result {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Result{Reason: ReasonMalformed}
	}

	sig, err := decodeSegment(parts[2])
	if err != nil {
		return Result{Reason: ReasonMalformed}
	}

	signingString := parts[0] + "." + parts[1]
	if err := jwt.SigningMethodHS256.Verify(signingString, sig, c.secret); err != nil {
		return Result{Reason: ReasonBadSignature}
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return Result{Reason: ReasonMalformed}
	}

	var claims models.Claims
	if err := json.Unmarshal(payload, &claims); err != nil || claims == nil {
		return Result{Reason: ReasonMalformed}
	}

	return Result{Claims: claims, Reason: ReasonOK}
}

// Sign, tek seferlik kullanım için kısayol: NewCodec(secret).Sign(claims).
func Sign(claims models.Claims, secret []byte) (string, error) {
	return NewCodec(secret).Sign(claims)
}

// Verify, tek seferlik kullanım için kısayol: NewCodec(secret).Verify(token).
func Verify(tokenString string, secret []byte) Result {
	return NewCodec(secret).Verify(tokenString)
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeSegment, padding'li veya padding'siz base64url kabul eder.
// Strict mod: son karakterdeki kullanılmayan bitler sıfır olmalı, aksi halde
// iki farklı string aynı imzaya decode olur.
func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(strings.TrimRight(s, "="))
}
