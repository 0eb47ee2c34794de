package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dinewallet.backend/internal/interfaces/http/response"
	"dinewallet.backend/pkg/jwt"
	"dinewallet.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// OperatorIDKey is the context key for the operator ID
	OperatorIDKey = "operatorId"
	// OperatorRoleKey is the context key for the operator role
	OperatorRoleKey = "operatorRole"
)

// AuthMiddleware authenticates operators by their bearer token.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(c.Request.Context(), "Authorization header is missing", zap.String("path", c.Request.URL.Path))
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format. Use: Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(c.Request.Context(), "Operator token rejected",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token has expired"
			}
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
			return
		}

		c.Set(OperatorIDKey, claims.OperatorID)
		c.Set(OperatorRoleKey, claims.Role)
		ctx := context.WithValue(c.Request.Context(), logger.OperatorIDKey, claims.OperatorID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetOperatorID gets the operator ID from context
func GetOperatorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(OperatorIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetOperatorRole gets the operator role from context
func GetOperatorRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(OperatorRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetOperatorRole(c)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Operator role not found")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin)
}
