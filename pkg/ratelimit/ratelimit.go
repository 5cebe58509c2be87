// Package ratelimit, sign-in brute-force denemelerine karşı in-memory limiter.
//
// Her anahtar (client IP) için sabit bir pencerede deneme sayılır.
// Pencere dolunca sayaç sıfırlanır; başarılı girişte Reset çağrılır.
// Tek instance deploy için in-memory yeterli; proje içi hiçbir pakete bağımlı değildir.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type bucket struct {
	count       int
	windowStart time.Time
}

// SignInLimiter, anahtar bazlı deneme sınırlayıcı. Goroutine-safe.
//
//	limiter := NewSignInLimiter(5, 2*time.Minute)
//	defer limiter.Stop()
//	if !limiter.Allow(ip) { return 429 }
//	// başarılı girişte:
//	limiter.Reset(ip)
type SignInLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	now         func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSignInLimiter, limiter'ı oluşturur ve süresi dolmuş bucket'ları silen
// arka plan goroutine'ini başlatır. Stop ile durdurulur.
func NewSignInLimiter(maxAttempts int, window time.Duration) *SignInLimiter {
	rl := newLimiter(maxAttempts, window, time.Now)
	go rl.cleanupLoop(time.Minute)
	return rl
}

func newLimiter(maxAttempts int, window time.Duration, now func() time.Time) *SignInLimiter {
	return &SignInLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		now:         now,
		stop:        make(chan struct{}),
	}
}

// Allow, bir denemeyi sayar ve limit aşılmadıysa true döner.
// Her çağrı sayacı artırır; sonuç başarılı olsun olmasın.
func (rl *SignInLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowStart) >= rl.window {
		rl.buckets[key] = &bucket{count: 1, windowStart: now}
		return rl.maxAttempts > 0
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, anahtarın sayacını siler. Başarılı girişten sonra çağrılır;
// aksi halde meşru kullanıcı sonraki girişlerde bloke olabilir.
func (rl *SignInLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// RetryAfter, pencerenin bitmesine kalan süreyi tam saniyeye yukarı yuvarlar.
// Retry-After header'ı için kullanılır.
func (rl *SignInLimiter) RetryAfter(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		return 0
	}

	remaining := rl.window - rl.now().Sub(b.windowStart)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// Stop, cleanup goroutine'ini durdurur. Birden fazla çağrılabilir.
func (rl *SignInLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *SignInLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *SignInLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) >= rl.window {
			delete(rl.buckets, key)
		}
	}
}

// ExtractIP, request'ten client IP'sini çıkarır.
//
// Öncelik: X-Forwarded-For'un ilk değeri, X-Real-IP, RemoteAddr'ın host kısmı.
// Uygulama genelde reverse proxy arkasında çalışır; RemoteAddr proxy'nin IP'sidir.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, bekleme süresini okunabilir hale getirir.
// 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", (seconds+59)/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
