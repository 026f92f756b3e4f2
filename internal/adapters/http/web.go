package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"rollcall/internal/adapters/http/middleware"
	"rollcall/internal/adapters/http/perf"
	attendanceStore "rollcall/internal/adapters/storage/attendance"
	personStore "rollcall/internal/adapters/storage/person"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore     personStore.Store
	KidStore        personStore.Store
	AttendanceStore attendanceStore.Store
}

// loadCSRFKey reads the CSRF secret from ROLLCALL_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("ROLLCALL_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("ROLLCALL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("ROLLCALL_ENV") == "production" {
		log.Fatal("ROLLCALL_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set ROLLCALL_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, verifier middleware.TokenVerifier, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(verifier),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
