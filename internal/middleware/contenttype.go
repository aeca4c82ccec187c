package middleware

import (
	"net/http"
	"strings"
)

// ContentType validates Content-Type headers for requests with bodies.
// DELETE bodies are only checked when present, and never for delete-all, which ignores its body.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requiresBody := r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut
		hasBody := r.Method == http.MethodDelete && r.ContentLength > 0 && r.URL.Query().Get("all") != "true"

		if requiresBody || hasBody {
			contentType := r.Header.Get("Content-Type")

			if contentType == "" {
				respondErrorJSON(w, r, http.StatusBadRequest, "Content-Type header is required", nil)
				return
			}

			if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
				respondErrorJSON(w, r, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
