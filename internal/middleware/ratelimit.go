package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type window struct {
	hits   int
	resets time.Time
}

// RateLimit caps each client to limit requests per fixed window. Every
// generation request can burn provider credits, so the limiter sits in front
// of the whole API rather than just the expensive routes. State is
// per-process; a multi-instance deployment would need a shared store.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	clients := make(map[string]*window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiterKey(r)
			now := time.Now()

			mu.Lock()
			win, ok := clients[key]
			if !ok || now.After(win.resets) {
				// An expired window is reset in place the next time its
				// client shows up.
				win = &window{resets: now.Add(per)}
				clients[key] = win
			}
			if win.hits >= limit {
				retry := time.Until(win.resets)
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			win.hits++
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// limiterKey picks the client address the window is keyed on. The first
// valid X-Forwarded-For entry wins when the service sits behind a proxy,
// otherwise the connection's remote host is used as-is.
func limiterKey(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			candidate := strings.TrimSpace(part)
			if candidate != "" && net.ParseIP(candidate) != nil {
				return candidate
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
