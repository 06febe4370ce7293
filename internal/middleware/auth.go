package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
)

const ContextPrincipal = "principal"

// AuthMiddleware trusts HS256 tokens issued by the identity service. The
// token carries the user id and role; expert and agent profiles are looked
// up on every request so a deleted profile takes effect immediately.
func AuthMiddleware(secret string, profiles identity.ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a Bearer token.")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "Token claims are unreadable.")
			return
		}

		userID, ok := subject(claims)
		roleClaim, _ := claims["role"].(string)
		role, roleErr := identity.ParseRole(roleClaim)
		if !ok || roleErr != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Token must carry a user id and a known role.")
			return
		}

		expertID, agentID, err := profiles.ResolveProfiles(c.Request.Context(), userID)
		if err != nil {
			slog.Error("profile lookup failed", "user_id", userID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.Body{
				Code:    "profile_lookup_failed",
				Message: "Unexpected error.",
			})
			return
		}

		c.Set(ContextPrincipal, identity.Principal{
			UserID:   userID,
			Role:     role,
			ExpertID: expertID,
			AgentID:  agentID,
		})

		c.Next()
	}
}

// sub may arrive as a JSON number or as a decimal string.
func subject(claims jwt.MapClaims) (uint, bool) {
	switch v := claims["sub"].(type) {
	case float64:
		if v <= 0 {
			return 0, false
		}
		return uint(v), true
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

// PrincipalFrom returns the caller set by AuthMiddleware.
func PrincipalFrom(c *gin.Context) identity.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		if p, ok := v.(identity.Principal); ok {
			return p
		}
	}
	return identity.Principal{}
}
