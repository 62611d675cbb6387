package middleware

import (
	"log"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logging logs one line per request. Runs after chi's RequestID so the
// id can be included.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// keeps Flusher and friends visible to streaming handlers
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf(
			"req=%s method=%s path=%s status=%d duration=%s bytes=%d",
			chimw.GetReqID(r.Context()),
			r.Method,
			r.URL.Path,
			status,
			time.Since(start),
			ww.BytesWritten(),
		)
	})
}
