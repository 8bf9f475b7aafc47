package httpx

import "net/http"

// CORS returns a middleware that permits cross-origin requests only from an
// allow-list of origins. Any other origin receives the fallback origin (the
// first entry), which keeps the header present but restrictive. Preflight
// OPTIONS requests are answered directly.
func CORS(allowed []string) Middleware {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		allowedSet[o] = struct{}{}
	}

	fallback := ""
	if len(allowed) > 0 {
		fallback = allowed[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if _, ok := allowedSet[origin]; !ok {
				origin = fallback
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
