package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pharmacy-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	token, _, err := jwtManager.GenerateAccessToken("meena", "Meena")
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/on", AuthMiddleware(jwtManager, true), func(c *gin.Context) {
		username, name := GetOperator(c)
		c.String(http.StatusOK, username+"/"+name+"/"+clientKey(c))
	})
	r.GET("/off", AuthMiddleware(jwtManager, false), func(c *gin.Context) {
		c.String(http.StatusOK, clientKey(c))
	})

	tests := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"missing header", "/on", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/on", "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", "/on", "Bearer abc.def.ghi", http.StatusUnauthorized, ""},
		{"valid token", "/on", "Bearer " + token, http.StatusOK, "meena/Meena/op:meena"},
		{"auth disabled", "/off", "", http.StatusOK, "ip:192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(r, req)
			if rec.Code != tt.code {
				t.Fatalf("code = %d", rec.Code)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, CleanupInterval: time.Minute, EntryTTL: time.Minute})
	defer rl.Stop()

	r := gin.New()
	r.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	if rec := serve(r, other); rec.Code != http.StatusOK {
		t.Errorf("another client should have its own bucket: %d", rec.Code)
	}
}

func TestIdempotencySkipsUnavailable(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	calls := 0
	r := gin.New()
	r.POST("/", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "down"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
		req.Header.Set(IdempotencyKeyHeader, "k1")
		return serve(r, req)
	}

	if rec := send(); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("first = %d", rec.Code)
	}
	if rec := send(); rec.Code != http.StatusCreated || rec.Header().Get("X-Idempotency-Replayed") != "" {
		t.Fatalf("retry after 503 should run the handler: %d", rec.Code)
	}
	rec := send()
	if rec.Code != http.StatusCreated || rec.Header().Get("X-Idempotency-Replayed") != "true" || calls != 2 {
		t.Fatalf("third should replay: code=%d calls=%d", rec.Code, calls)
	}
}

func TestIdempotencyReplaysPartialFailure(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	calls := 0
	r := gin.New()
	r.POST("/", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"message": "partial"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
		req.Header.Set(IdempotencyKeyHeader, "k-500")
		if rec := serve(r, req); rec.Code != http.StatusInternalServerError {
			t.Fatalf("attempt %d = %d", i, rec.Code)
		}
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencyExpiredKeyIsReplaced(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	r := gin.New()
	r.POST("/", Idempotency(IdempotencyConfig{Repo: repo, Now: func() time.Time { return clock }}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
		req.Header.Set(IdempotencyKeyHeader, "k-old")
		return serve(r, req)
	}

	send()
	clock = clock.Add(IdempotencyKeyTTL + time.Minute)
	if rec := send(); rec.Header().Get("X-Idempotency-Replayed") != "" || calls != 2 {
		t.Fatalf("expired key should run the handler again: calls=%d", calls)
	}
	rec := send()
	if rec.Header().Get("X-Idempotency-Replayed") != "true" || calls != 2 {
		t.Fatalf("renewed key should replay: calls=%d", calls)
	}
	if !strings.Contains(rec.Body.String(), `"call":2`) {
		t.Errorf("replayed body = %s", rec.Body)
	}
}
