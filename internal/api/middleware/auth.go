package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	jwtLeeway = 5 * time.Second

	msgUnauthorized = "требуется аутентификация"
)

var (
	// ErrMissingIdentity возвращается, когда запрос не содержит данных о пользователе
	ErrMissingIdentity = errors.New("auth: missing identity")

	// ErrInvalidIdentity возвращается при некорректном токене или заголовках
	ErrInvalidIdentity = errors.New("auth: invalid identity")
)

type identityKey struct{}

// WithIdentity кладет пользователя в контекст запроса
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext достает пользователя, положенного Auth
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// Claims claims bearer-токена
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator определяет пользователя запроса.
// С секретом принимает только Authorization: Bearer <HS256 JWT>, без секрета доверяет заголовкам шлюза.
type Authenticator struct {
	secret []byte
	logger Logger
}

// NewAuthenticator создает аутентификатор; пустой secret включает режим заголовков шлюза
func NewAuthenticator(secret string, logger Logger) *Authenticator {
	a := &Authenticator{logger: logger}
	if secret != "" {
		a.secret = []byte(secret)
	}
	return a
}

// Auth middleware аутентификации для mux роутера
func Auth(secret string, logger Logger) func(http.Handler) http.Handler {
	return NewAuthenticator(secret, logger).Middleware
}

// Middleware отклоняет запросы без валидного пользователя со статусом 401
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.Identify(r)
		if err != nil {
			a.logger.Warn("%s %s - unauthorized: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Identify извлекает пользователя из запроса
func (a *Authenticator) Identify(r *http.Request) (domain.Identity, error) {
	if a.secret != nil {
		return a.fromBearer(r.Header.Get("Authorization"))
	}
	return fromHeaders(r.Header.Get(HeaderUserID), r.Header.Get(HeaderUserRole))
}

func (a *Authenticator) fromBearer(header string) (domain.Identity, error) {
	if header == "" {
		return domain.Identity{}, ErrMissingIdentity
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.Identity{}, fmt.Errorf("%w: invalid authorization format", ErrInvalidIdentity)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(jwtLeeway))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	return fromHeaders(claims.Subject, claims.Role)
}

func fromHeaders(rawID, rawRole string) (domain.Identity, error) {
	if rawID == "" || rawRole == "" {
		return domain.Identity{}, ErrMissingIdentity
	}

	userID, err := uuid.Parse(rawID)
	if err != nil || userID == uuid.Nil {
		return domain.Identity{}, fmt.Errorf("%w: user id %q", ErrInvalidIdentity, rawID)
	}

	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	return domain.Identity{UserID: userID, Role: role}, nil
}
