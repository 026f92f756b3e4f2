package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	web "rollcall/internal/adapters/http"
	"rollcall/internal/adapters/http/middleware"
	"rollcall/internal/adapters/http/perf"
	"rollcall/internal/adapters/storage"
	attendanceStore "rollcall/internal/adapters/storage/attendance"
	personStore "rollcall/internal/adapters/storage/person"
	"rollcall/internal/domain/person"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configureLogging()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("ROLLCALL_DB", "rollcall.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		MemberStore:     personStore.NewSQLiteStore(timedDB, person.CohortMember),
		KidStore:        personStore.NewSQLiteStore(timedDB, person.CohortKid),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
	}

	secret := os.Getenv("ROLLCALL_JWT_SECRET")
	if secret == "" {
		if os.Getenv("ROLLCALL_ENV") == "production" {
			log.Fatal("ROLLCALL_JWT_SECRET is required in production")
		}
		secret = "rollcall-dev-secret"
		log.Println("WARNING: using development JWT secret. Set ROLLCALL_JWT_SECRET for production.")
	}
	verifier := middleware.HS256Verifier{
		Secret: []byte(secret),
		Issuer: os.Getenv("ROLLCALL_JWT_ISSUER"),
	}

	mux := web.NewMux(stores, verifier, collector)

	addr := envOrDefault("ROLLCALL_ADDR", ":8080")
	log.Printf("rollcall %s starting on %s (env=%s)", version, addr, envOrDefault("ROLLCALL_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// configureLogging sets the process-wide slog level from ROLLCALL_LOG_LEVEL.
func configureLogging() {
	level := slog.LevelInfo
	switch envOrDefault("ROLLCALL_LOG_LEVEL", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
