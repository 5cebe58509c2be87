package models

import "time"

// Claim anahtarları: token payload'ındaki sabit alan isimleri.
const (
	ClaimUserID    = "userId"
	ClaimEmail     = "email"
	ClaimExpiresAt = "exp"
	ClaimTokenID   = "jti"
)

// Claims, session token'ının imzalanmış payload'ı.
//
// Token 3 parçadan oluşur: header.claims.signature
// Claims kısmında en az kullanıcı ID'si, email ve expire zamanı (epoch saniye) bulunur.
// Ek alanlar serbesttir (ör: jti).
//
// Claims bir kez imzalandıktan sonra değiştirilemez: değişiklik için yeni
// token üretilmelidir (imza zaten eski içeriğe bağlıdır).
type Claims map[string]Value

// NewSessionClaims, sign-in sonrası token'a konacak temel claim setini oluşturur.
func NewSessionClaims(userID int64, email string, expiresAt time.Time) Claims {
	return Claims{
		ClaimUserID:    IntValue(userID),
		ClaimEmail:     StringValue(email),
		ClaimExpiresAt: IntValue(expiresAt.Unix()),
	}
}

// UserID, subject (kullanıcı ID) claim'ini döner.
func (c Claims) UserID() (int64, bool) {
	return c[ClaimUserID].Int64()
}

// Email, kimlik (email) claim'ini döner.
func (c Claims) Email() (string, bool) {
	return c[ClaimEmail].Str()
}

// ExpiresAt, exp claim'ini epoch saniye olarak döner.
func (c Claims) ExpiresAt() (int64, bool) {
	return c[ClaimExpiresAt].Int64()
}

// Expired, token'ın verilen anda kullanılamaz olup olmadığını döner.
// Token sadece exp > now iken geçerlidir. exp yoksa veya sayı değilse expired sayılır.
func (c Claims) Expired(now time.Time) bool {
	exp, ok := c.ExpiresAt()
	if !ok {
		return true
	}
	return exp <= now.Unix()
}
