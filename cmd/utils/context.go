package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/mediremind/mediremind-server/cmd/models"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

// Claims are the access-token claims: the registered subject carries the
// user ID, plus the account role so handlers can branch without a lookup.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func GetUserIDFromContext(ctx context.Context) (uint, error) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return userID, nil
}

func GetRoleFromContext(ctx context.Context) (models.Role, error) {
	role, ok := ctx.Value(RoleKey).(models.Role)
	if !ok {
		return "", errors.New("role not found in context")
	}
	return role, nil
}

// ParseBearerToken validates the Authorization header of a request and
// returns the user ID and role it carries. Used by AuthMiddleware and by
// the session endpoint, which treats failure as "no user" rather than
// an error.
func ParseBearerToken(r *http.Request) (uint, models.Role, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return 0, "", errors.New("authorization header required")
	}

	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("SECRET_KEY")), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", errors.New("invalid user ID in token")
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return 0, "", err
	}

	return uint(userID), role, nil
}

func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := ParseBearerToken(r)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, RoleKey, role)
		next(w, r.WithContext(ctx))
	}
}
