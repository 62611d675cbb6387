package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/rahul4469/area-analyzer/context"
	"github.com/rahul4469/area-analyzer/internal/models"
)

type SessionMiddleware struct {
	store      *models.SessionStore
	cookieName string
	secure     bool
}

func NewSessionMiddleware(store *models.SessionStore, cookieName string, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		store:      store,
		cookieName: cookieName,
		secure:     secure,
	}
}

// SetSession loads the browser session from the session cookie and stores it
// in the request context. A missing, unknown or expired cookie starts a new
// session, so every request handled after this middleware has one.
func (m *SessionMiddleware) SetSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.lookup(r)
		if session == nil {
			created, err := m.store.Create()
			if err != nil {
				log.Printf("Failed to create session: %v", err)
				http.Error(w, "Something went wrong", http.StatusInternalServerError)
				return
			}
			m.setCookie(w, created.Token)
			session = created
		}

		ctx := context.ContextSetSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoadSession is SetSession without creating anything: a request without a
// live session cookie proceeds with no session in its context.
func (m *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session := m.lookup(r); session != nil {
			r = r.WithContext(context.ContextSetSession(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionMiddleware) lookup(r *http.Request) *models.Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	session, err := m.store.ByToken(cookie.Value)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) {
			log.Printf("session lookup: %v", err)
		}
		return nil
	}
	return session
}

func (m *SessionMiddleware) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// HELPER FUNCS --------------------------------------------

// CurrentSession returns the session of the request, or nil outside of
// SetSession.
func CurrentSession(r *http.Request) *models.Session {
	return context.ContextGetSession(r.Context())
}

// MustCurrentSession is like CurrentSession but panics if no session is found.
// Only use this in handlers behind SetSession.
func MustCurrentSession(r *http.Request) *models.Session {
	session := context.ContextGetSession(r.Context())
	if session == nil {
		panic("MustCurrentSession called without SetSession middleware")
	}
	return session
}
