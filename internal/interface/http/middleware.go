package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	domuser "example.com/catalog-admin/internal/domain/user"
)

type ctxActorKey struct{}

func withActor(ctx context.Context, actor domuser.Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey{}, actor)
}

// actorFrom returns the caller resolved by the identity middleware, or the
// anonymous actor.
func actorFrom(ctx context.Context) domuser.Actor {
	if actor, ok := ctx.Value(ctxActorKey{}).(domuser.Actor); ok {
		return actor
	}
	return domuser.Anonymous
}

// identifyFromCookie resolves the session cookie into an actor. It never
// rejects a request: guarding is left to the catalog operations.
func (a *API) identifyFromCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(a.cookieName); err == nil {
			token = c.Value
		}
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), a.authenticate(r, token))))
	})
}

// identifyAPI resolves the API caller: the service actor when the API is
// public, otherwise the bearer token's user.
func (a *API) identifyAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.publicAPI {
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), apiServiceActor)))
			return
		}

		var token string
		if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), a.authenticate(r, token))))
	})
}

func (a *API) authenticate(r *http.Request, token string) domuser.Actor {
	if token == "" || a.authSvc == nil {
		return domuser.Anonymous
	}
	actor, err := a.authSvc.Authenticate(r.Context(), token)
	if err != nil {
		a.logger.Warn("authenticate failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		return domuser.Anonymous
	}
	return actor
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		a.logger.Info("http request",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
