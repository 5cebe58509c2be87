package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akinalp/tohum/models"
	"github.com/akinalp/tohum/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	guardSecret = []byte("guard-test-secret")
	guardNow    = time.Unix(1_800_000_000, 0)
)

type reasonCounter map[string]int

func (c reasonCounter) RecordGuardDecision(reason string) { c[reason]++ }

type panickyVerifier struct{}

func (panickyVerifier) Verify(string) token.Result { panic("boom") }

func newTestGuard(verifier TokenVerifier, rec DecisionRecorder) *AuthGuard {
	cfg := DefaultGuardConfig("token")
	cfg.Now = func() time.Time { return guardNow }
	return NewAuthGuard(verifier, cfg, rec)
}

func signFor(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := token.Sign(models.NewSessionClaims(7, "can@example.com", exp), guardSecret)
	require.NoError(t, err)
	return tok
}

// recordingHandler, çağrıldığını ve aldığı claims'i kaydeder.
type recordingHandler struct {
	called bool
	claims models.Claims
}

func (h *recordingHandler) serve(w http.ResponseWriter, r *http.Request, claims models.Claims) {
	h.called = true
	h.claims = claims
	w.WriteHeader(http.StatusOK)
}

func do(guard *AuthGuard, h *recordingHandler, path, cookieValue string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	guard.Guard(h.serve).ServeHTTP(rec, req)
	return rec
}

func TestGuardProtectedPath(t *testing.T) {
	valid := signFor(t, guardNow.Add(time.Minute))
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name       string
		cookie     string
		wantCalled bool
	}{
		{"valid", valid, true},
		{"absent", "", false},
		{"tampered", tampered, false},
		{"expired", signFor(t, guardNow.Add(-time.Second)), false},
		{"expires exactly now", signFor(t, guardNow), false},
		{"malformed", "not-a-token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := newTestGuard(token.NewCodec(guardSecret), nil)
			h := &recordingHandler{}
			rec := do(guard, h, "/dashboard", tt.cookie)

			assert.Equal(t, tt.wantCalled, h.called)
			if tt.wantCalled {
				assert.Equal(t, http.StatusOK, rec.Code)
				uid, ok := h.claims.UserID()
				assert.True(t, ok)
				assert.Equal(t, int64(7), uid)
				return
			}

			// absent, tampered, expired, malformed: hepsi aynı yanıt
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
			assert.Empty(t, rec.Header().Values("Set-Cookie"))
			assert.Empty(t, rec.Body.String())
		})
	}
}

func TestGuardAnonymousOnlyPath(t *testing.T) {
	guard := newTestGuard(token.NewCodec(guardSecret), nil)

	t.Run("signed in user goes to landing", func(t *testing.T) {
		h := &recordingHandler{}
		rec := do(guard, h, "/login", signFor(t, guardNow.Add(time.Hour)))

		assert.False(t, h.called)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("no cookie renders anonymously", func(t *testing.T) {
		h := &recordingHandler{}
		rec := do(guard, h, "/signup", "")

		assert.True(t, h.called)
		assert.Nil(t, h.claims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired token renders anonymously", func(t *testing.T) {
		h := &recordingHandler{}
		do(guard, h, "/login", signFor(t, guardNow.Add(-time.Hour)))

		assert.True(t, h.called)
		assert.Nil(t, h.claims)
	})

	t.Run("tampered token renders anonymously", func(t *testing.T) {
		other, err := token.Sign(models.NewSessionClaims(1, "x@y.z", guardNow.Add(time.Hour)), []byte("other"))
		require.NoError(t, err)

		h := &recordingHandler{}
		do(guard, h, "/login", other)
		assert.True(t, h.called)
	})

	t.Run("malformed token clears cookie and redirects to sign in", func(t *testing.T) {
		h := &recordingHandler{}
		rec := do(guard, h, "/login", "a.b")

		assert.False(t, h.called)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))

		setCookie := rec.Header().Get("Set-Cookie")
		assert.Contains(t, setCookie, "token=;")
		assert.Contains(t, setCookie, "Max-Age=0")
	})
}

func TestGuardRecoversVerifierPanic(t *testing.T) {
	counts := reasonCounter{}
	guard := newTestGuard(panickyVerifier{}, counts)

	h := &recordingHandler{}
	rec := do(guard, h, "/about", "anything")
	assert.False(t, h.called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = do(guard, h, "/signup", "anything")
	assert.False(t, h.called)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	assert.Equal(t, 2, counts["malformed"])
}

func TestEvaluateReasons(t *testing.T) {
	guard := newTestGuard(token.NewCodec(guardSecret), nil)

	req := func(value string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if value != "" {
			r.AddCookie(&http.Cookie{Name: "token", Value: value})
		}
		return r
	}

	noExp, err := token.Sign(models.Claims{models.ClaimUserID: models.IntValue(1)}, guardSecret)
	require.NoError(t, err)

	assert.Equal(t, ReasonAbsent, guard.Evaluate(req("")).Reason)
	assert.Equal(t, ReasonMalformed, guard.Evaluate(req("x.y.z.w")).Reason)
	assert.Equal(t, ReasonExpired, guard.Evaluate(req(noExp)).Reason)
	assert.Equal(t, ReasonTampered, guard.Evaluate(req(signFor(t, guardNow.Add(time.Hour))+"A")).Reason)

	d := guard.Evaluate(req(signFor(t, guardNow.Add(time.Hour))))
	assert.Equal(t, ReasonAuthenticated, d.Reason)
	assert.NotNil(t, d.Claims)
}

func TestClaimsFromContext(t *testing.T) {
	guard := newTestGuard(token.NewCodec(guardSecret), nil)

	var fromCtx models.Claims
	handler := guard.Guard(func(w http.ResponseWriter, r *http.Request, claims models.Claims) {
		fromCtx, _ = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signFor(t, guardNow.Add(time.Hour))})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	email, ok := fromCtx.Email()
	assert.True(t, ok)
	assert.Equal(t, "can@example.com", email)

	_, ok = ClaimsFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
