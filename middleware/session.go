package middleware

import (
	"net/http"

	goSRP "github.com/MrEthical07/goSRP"
	"github.com/MrEthical07/goSRP/session"
)

// Session wraps a handler with the cookie-backed session transport. Handlers
// downstream read the request identity via goSRP.Engine.CurrentUsername and
// change it only through Engine.Login / Engine.Logout.
func Session(engine *goSRP.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "server misconfigured", http.StatusInternalServerError)
				return
			}

			var token string
			if cookie, err := r.Cookie(engine.CookieName()); err == nil {
				token = cookie.Value
			}

			state := engine.OpenSession(r.Context(), token)
			ctx := session.NewContext(r.Context(), state)

			sw := &sessionWriter{
				ResponseWriter: w,
				engine:         engine,
				state:          state,
			}
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.writeCookie()
		})
	}
}

// sessionWriter defers the Set-Cookie header until the response commits, so
// a Login or Logout inside the handler is reflected on the same response.
type sessionWriter struct {
	http.ResponseWriter
	engine      *goSRP.Engine
	state       *session.State
	cookieDone  bool
	wroteHeader bool
}

func (w *sessionWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeCookie()
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) writeCookie() {
	if w.cookieDone || !w.state.Dirty() {
		w.cookieDone = true
		return
	}
	w.cookieDone = true

	token, err := w.engine.SealSession(w.state)
	if err != nil {
		return
	}

	cookie := &http.Cookie{
		Name:     w.engine.CookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w.ResponseWriter, cookie)
}
