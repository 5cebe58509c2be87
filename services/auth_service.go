// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturur:
//   - Service http.Request/Response bilmez, sadece domain modelleri alır/verir.
//   - Service doğrudan SQL çalıştırmaz, repository interface'i kullanır.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/akinalp/tohum/models"
	"github.com/akinalp/tohum/pkg"
	"github.com/akinalp/tohum/repository"
	"github.com/google/uuid"
)

// ErrInvalidCredentials, bilinmeyen email veya yanlış şifre.
// İkisi bilinçli olarak ayırt edilmez: hangi email'lerin kayıtlı olduğu sızmasın.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)

// TokenSigner, claims'i imzalı token'a çevirir. *token.Codec bunu karşılar.
type TokenSigner interface {
	Sign(claims models.Claims) (string, error)
}

// AuthService interface'i, dışarıya açık API.
type AuthService interface {
	// SignUp, yeni kullanıcı oluşturur. Email zaten kayıtlıysa pkg.ErrAlreadyExists.
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.User, error)
	// SignIn, kimlik bilgilerini doğrular ve yeni bir session token'ı üretir.
	SignIn(ctx context.Context, req *models.SignInRequest) (*Session, error)
}

// Session, başarılı giriş sonrası cookie'ye yazılacak token.
type Session struct {
	Token  string
	MaxAge int // saniye; cookie Max-Age'i ile aynı
	Claims models.Claims
}

// AuthOptions, AuthService'in çalışma ayarları.
type AuthOptions struct {
	// TokenLifetime, token'ın geçerlilik süresi (exp = now + lifetime).
	TokenLifetime time.Duration
	// Now, saat kaynağı. nil ise time.Now.
	Now func() time.Time
}

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	signer   TokenSigner
	lifetime time.Duration
	now      func() time.Time
}

// NewAuthService, constructor.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	signer TokenSigner,
	opts AuthOptions,
) AuthService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lifetime := opts.TokenLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}

	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		signer:   signer,
		lifetime: lifetime,
		now:      now,
	}
}

// SignUp, yeni kullanıcı kaydı oluşturur.
//
// 1. Validation
// 2. Email kontrolü (varsa ErrAlreadyExists, satır eklenmez)
// 3. Şifre hash
// 4. Insert
func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists olabilir (yarış durumu)
	}

	log.Printf("[auth] user signed up: id=%d", user.ID)
	return user, nil
}

// SignIn, kullanıcı girişi yapar.
//
// Başarılıysa claims {userId, email, exp, jti} ile imzalı token döner.
// jti her token'ı benzersiz yapar; aynı saniyede iki giriş aynı token'ı üretmez.
func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	claims := models.NewSessionClaims(user.ID, user.Email, s.now().Add(s.lifetime))
	claims[models.ClaimTokenID] = models.StringValue(uuid.NewString())

	token, err := s.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &Session{
		Token:  token,
		MaxAge: int(s.lifetime / time.Second),
		Claims: claims,
	}, nil
}
