package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// AuthUser is the caller identified by a Supabase access token.
type AuthUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type contextKey string

const userContextKey contextKey = "authenticated_user"

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret string
	// Audience, when set, must appear in the aud claim. Supabase issues "authenticated".
	Audience  string
	Logger    *zap.Logger
	SkipPaths []string
}

// accessClaims are the Supabase access token claims the service reads.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTMiddleware validates HMAC-signed bearer tokens and stores the caller
// under the "sub" claim. Rejections are returned as coded errors and
// rendered by the echo error handler with status 401.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}
	parser := jwt.NewParser(opts...)
	secret := []byte(config.Secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			claims := &accessClaims{}
			if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			}); err != nil {
				config.Logger.Debug("JWT validation failed", zap.String("path", path), zap.Error(err))
				return apperrors.NewAppError(apperrors.ErrInvalidToken, "Invalid or expired token", err)
			}

			if claims.Subject == "" {
				return apperrors.NewAppError(apperrors.ErrInvalidClaims, "Token subject required", nil)
			}

			user := &AuthUser{
				UserID: claims.Subject,
				Email:  claims.Email,
				Role:   claims.Role,
			}
			c.SetRequest(c.Request().WithContext(WithUser(c.Request().Context(), user)))
			c.Set("user_id", user.UserID)

			config.Logger.Debug("User authenticated",
				zap.String("user_id", user.UserID),
				zap.String("path", path))

			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewAppError(apperrors.ErrMissingAuthHeader, "Authorization header required", nil)
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperrors.NewAppError(apperrors.ErrInvalidAuthFormat,
			"Invalid authorization header format. Expected: Bearer <token>", nil)
	}
	return strings.TrimSpace(token), nil
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c echo.Context) (*AuthUser, error) {
	user, ok := c.Request().Context().Value(userContextKey).(*AuthUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user found in context")
	}
	return user, nil
}

// GetUserID returns the authenticated user's id
func GetUserID(c echo.Context) (string, error) {
	user, err := GetUserFromContext(c)
	if err != nil {
		return "", err
	}
	return user.UserID, nil
}

// WithUser stores user in ctx. Used by non-HTTP entry points and tests.
func WithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
