package util

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Logger setup
var (
	InfoLogger  *zap.SugaredLogger
	ErrorLogger *zap.SugaredLogger
)

func init() {
	logger, err := zap.NewProduction(zap.WithCaller(false))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	InfoLogger = logger.Sugar()
	ErrorLogger = logger.Sugar()
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		InfoLogger.Infof("Request: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
		InfoLogger.Infof("Request %s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				ErrorLogger.Errorf("Panic recovered: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware allows cross-origin requests from the whitelisted origins
// only. Requests without an Origin header (curl, same-origin) pass through.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed[origin] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
