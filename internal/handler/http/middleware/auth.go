package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type sessionKey struct{}

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims[jwt.ClaimType].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// Principal resolves the verified claims into a user.Session and stores it in
// the request context.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		userID, _ := claims[jwt.ClaimUserID].(string)
		role, _ := claims[jwt.ClaimRole].(string)
		mustReset, _ := claims[jwt.ClaimMustResetPassword].(bool)

		session := user.Session{
			PrincipalID:       userID,
			Role:              user.Role(role),
			MustResetPassword: mustReset,
		}
		if _, err := session.Principal(); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session user.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by Principal.
func SessionFromContext(ctx context.Context) (user.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(user.Session)
	return session, ok
}

// PrincipalFromContext returns the caller of the request.
func PrincipalFromContext(ctx context.Context) (user.Principal, error) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return nil, user.ErrInvalidSession
	}
	return session.Principal()
}

// PasswordResetGate blocks every route it wraps while the caller still holds
// a temporary password.
func PasswordResetGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrInvalidSession)
			return
		}
		if session.MustResetPassword {
			response.HandleError(w, user.ErrPasswordResetRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
