package middleware

import (
	"net/http"
)

// LimitBody caps request bodies at n bytes. It has to run before anything
// that parses the body, CSRF included.
//
// A request declaring a larger Content-Length is never read: tooLarge serves
// it as a bodiless GET, so a page rendered through the CSRF middleware still
// gets a fresh token. A body of unknown length is cut off at n bytes.
func LimitBody(n int64, tooLarge http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > n {
				rejected := r.Clone(r.Context())
				rejected.Method = http.MethodGet
				rejected.Body = http.NoBody
				rejected.ContentLength = 0
				// the unread body must not be reused for keep-alive
				w.Header().Set("Connection", "close")
				tooLarge.ServeHTTP(w, rejected)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
