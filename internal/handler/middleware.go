package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"feuilletemps/internal/i18n"
	"feuilletemps/internal/state"
)

// LoggingMiddleware logs every request with its status and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// LocaleMiddleware puts the request locale on the context. The X-Locale
// header wins, then the first Accept-Language tag, then the configured
// default.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := r.Header.Get("X-Locale")
		if locale == "" {
			if al := r.Header.Get("Accept-Language"); al != "" {
				tag := strings.SplitN(al, ",", 2)[0]
				locale = strings.SplitN(strings.TrimSpace(tag), "-", 2)[0]
			}
		}
		if locale != "" {
			r = r.WithContext(i18n.WithLocale(r.Context(), locale))
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession resolves the bearer token to a live session; it writes the
// 401 itself when there is none.
func requireSession(w http.ResponseWriter, r *http.Request, manager *state.Manager) (*state.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeStatusJSON(w, http.StatusUnauthorized, ErrorResponse{Error: i18n.T(r.Context(), "error.unauthorized")})
		return nil, false
	}
	sess, ok := manager.Get(token)
	if !ok {
		writeStatusJSON(w, http.StatusUnauthorized, ErrorResponse{Error: i18n.T(r.Context(), "error.unauthorized")})
		return nil, false
	}
	return sess, true
}
