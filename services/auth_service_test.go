package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/akinalp/tohum/database"
	"github.com/akinalp/tohum/models"
	"github.com/akinalp/tohum/pkg"
	"github.com/akinalp/tohum/pkg/token"
	"github.com/akinalp/tohum/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("services-test-secret")

type fixture struct {
	db      *database.DB
	svc     AuthService
	codec   *token.Codec
	nowUnix int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gate := &database.Gate{
		Store: database.NewFileSnapshotStore(filepath.Join(t.TempDir(), "schema.snapshot")),
		Exec:  db,
	}
	_, err = gate.Apply(context.Background(), string(database.DefaultSchema))
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	codec := token.NewCodec(testSecret)
	svc := NewAuthService(
		repository.NewSQLiteUserRepo(db.Conn),
		NewBcryptHasher(bcrypt.MinCost),
		codec,
		AuthOptions{TokenLifetime: time.Hour, Now: func() time.Time { return now }},
	)

	return &fixture{db: db, svc: svc, codec: codec, nowUnix: now.Unix()}
}

func (f *fixture) userCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	return n
}

func TestSignUpThenSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.SignUp(ctx, &models.SignUpRequest{
		Email: "Deniz@Example.com", Username: "deniz", Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "deniz@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	session, err := f.svc.SignIn(ctx, &models.SignInRequest{Email: "deniz@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, 3600, session.MaxAge)

	res := f.codec.Verify(session.Token)
	require.True(t, res.Valid())

	uid, ok := res.Claims.UserID()
	require.True(t, ok)
	assert.Equal(t, user.ID, uid)

	email, _ := res.Claims.Email()
	assert.Equal(t, "deniz@example.com", email)

	exp, _ := res.Claims.ExpiresAt()
	assert.Equal(t, f.nowUnix+3600, exp)

	jti, ok := res.Claims[models.ClaimTokenID].Str()
	assert.True(t, ok)
	assert.NotEmpty(t, jti)
}

func TestSignInTokensAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, &models.SignUpRequest{Email: "a@example.com", Username: "aaa", Password: "password1"})
	require.NoError(t, err)

	first, err := f.svc.SignIn(ctx, &models.SignInRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	second, err := f.svc.SignIn(ctx, &models.SignInRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, &models.SignUpRequest{Email: "x@example.com", Username: "first", Password: "password1"})
	require.NoError(t, err)

	_, err = f.svc.SignUp(ctx, &models.SignUpRequest{Email: "X@example.com ", Username: "second", Password: "password2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrAlreadyExists))
	assert.Equal(t, 1, f.userCount(t))
}

func TestSignUpValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignUp(context.Background(), &models.SignUpRequest{Email: "nope", Username: "user", Password: "password1"})
	assert.True(t, errors.Is(err, pkg.ErrBadRequest))
	assert.Equal(t, 0, f.userCount(t))
}

func TestSignInFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, &models.SignUpRequest{Email: "b@example.com", Username: "bbb", Password: "password1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  models.SignInRequest
	}{
		{"wrong password", models.SignInRequest{Email: "b@example.com", Password: "password2"}},
		{"unknown email", models.SignInRequest{Email: "c@example.com", Password: "password1"}},
		{"empty password", models.SignInRequest{Email: "b@example.com"}},
		{"empty email", models.SignInRequest{Password: "password1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			session, err := f.svc.SignIn(ctx, &req)
			assert.Nil(t, session)
			assert.True(t, errors.Is(err, ErrInvalidCredentials))
			assert.True(t, errors.Is(err, pkg.ErrUnauthorized))
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret-pass")
	require.NoError(t, err)

	ok, err := h.Verify("s3cret-pass", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("other", digest)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("s3cret-pass", "not-a-bcrypt-hash")
	assert.Error(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
