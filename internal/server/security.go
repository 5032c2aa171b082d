package server

import (
	"net/http"
	"strings"
)

// DefaultMaxDigitsValue caps the digit count a single request may ask for.
// Cost grows faster than linearly with the digit count, so an open endpoint
// needs a much lower bound than the CLI.
const DefaultMaxDigitsValue = 1_000_000

// SecurityConfig holds the HTTP hardening settings of the server.
type SecurityConfig struct {
	// EnableCORS adds Access-Control-* headers for allowed origins.
	EnableCORS bool
	// AllowedOrigins lists the origins allowed by CORS; "*" allows all.
	AllowedOrigins []string
	// AllowedMethods lists the methods advertised to CORS clients.
	AllowedMethods []string
	// MaxDigitsValue is the largest digits parameter accepted by /pi.
	MaxDigitsValue int
}

// DefaultSecurityConfig returns the configuration used by NewServer.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxDigitsValue: DefaultMaxDigitsValue,
	}
}

// SecurityMiddleware sets defensive response headers, applies CORS and
// answers preflight requests without calling next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin, ok := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
				if origin != "*" {
					h.Add("Vary", "Origin")
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func allowedOrigin(allowed []string, origin string) (string, bool) {
	for _, o := range allowed {
		if o == "*" {
			return "*", true
		}
		if origin != "" && o == origin {
			return origin, true
		}
	}
	return "", false
}
