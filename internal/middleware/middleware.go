package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
)

const (
	UserTypeWorker   = "worker"
	UserTypeEmployer = "employer"
)

// CallerIdentity is the already-authenticated caller identity minted by the
// external auth service. The backend trusts these claims and only enforces
// ownership rules on top of them.
type CallerIdentity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	UserType string `json:"type"`
	jwt.StandardClaims
}

func (c *CallerIdentity) IsWorker() bool {
	return c.UserType == UserTypeWorker
}

func (c *CallerIdentity) IsEmployer() bool {
	return c.UserType == UserTypeEmployer
}

func HTTPSMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.Path
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
		logger.Info().
			Str("Host", r.Host).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Str("x-forwarded-for", r.Header.Get("x-forwarded-for")).
			Msg("req")
		next.ServeHTTP(w, r)
	})
}

func HeadersMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" {
			w.Header().Set("X-Frame-Options", "deny")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Referrer-Policy", "origin")
		}
		next.ServeHTTP(w, r)
	})
}

func MachineAuthenticatedMiddleware(machineToken string, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("x-machine-token")
		if token != machineToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

func AuthenticatedMiddleware(jwtKey []byte, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetCallerFromRequest(r, jwtKey); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

// GetCallerFromRequest decodes the bearer token on the request into the
// caller identity. The token is issued and signed by the external auth
// service with a key shared through config.
func GetCallerFromRequest(r *http.Request, jwtKey []byte) (*CallerIdentity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.New("could not find authorization header")
	}
	tk := strings.TrimPrefix(header, "Bearer ")
	if tk == header {
		return nil, errors.New("authorization header is not a bearer token")
	}
	token, err := jwt.ParseWithClaims(tk, &CallerIdentity{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is expired")
	}
	claims, ok := token.Claims.(*CallerIdentity)
	if !ok {
		return nil, errors.New("could not convert jwt claims to CallerIdentity")
	}
	if claims.UserID == "" {
		return nil, errors.New("token carries no user id")
	}
	return claims, nil
}
