package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

const headerAuthorization = "Authorization"

// actorKey is the context key for the authenticated actor's user ID.
type actorKey struct{}

// WithActor returns a new context with the given actor user ID stored in it.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext extracts the authenticated actor's user ID from the
// context. Returns an empty string if no actor is stored.
func ActorFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(actorKey{}).(string); ok {
		return id
	}
	return ""
}

// Auth returns middleware that authenticates requests via an HS256-signed
// bearer token. The token's subject claim identifies the actor; it is
// stored in the request context for handlers via ActorFromContext.
// Requests with a missing, malformed, or invalid token are rejected with
// 401 before reaching any handler.
func Auth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(raw, claims,
				func(*jwt.Token) (any, error) { return key, nil },
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			)
			if err != nil || !token.Valid {
				writeUnauthorized(w, r, "invalid token")
				return
			}
			if claims.Subject == "" {
				writeUnauthorized(w, r, "token has no subject")
				return
			}

			ctx := WithActor(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(headerAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, prefix))
	return tok, tok != ""
}

// writeUnauthorized writes an RFC 9457 problem response for a failed
// authentication. The dto package is not used here to keep the middleware
// layer free of handler dependencies.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":     "about:blank",
		"title":    http.StatusText(http.StatusUnauthorized),
		"status":   http.StatusUnauthorized,
		"detail":   detail,
		"instance": r.RequestURI,
	})
}
