package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// principalContextKey is where the middleware stores the caller name.
const principalContextKey = "principal"

// BearerAuth returns a middleware that validates a Bearer JWT signed with
// secret. An empty secret disables authentication entirely, which is the
// default for local deployments.
func BearerAuth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secret == "" {
			ctx.Next()
			return
		}

		name, err := parseBearer(ctx.GetHeader("Authorization"), secret)
		if err != nil {
			var errorResponse ErrorResponse
			errorResponse.Message = err.Error()
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse)
			return
		}

		ctx.Set(principalContextKey, name)
		ctx.Next()
	}
}

// parseBearer validates the Authorization header and returns the caller name.
func parseBearer(header, secret string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	tokenStr := strings.TrimSpace(parts[1])

	type claims struct {
		Name string `json:"name"`
		jwt.RegisteredClaims
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return "", err
	}

	c, _ := tok.Claims.(*claims)
	if c == nil || c.Name == "" {
		return "", errors.New("invalid claims")
	}
	return c.Name, nil
}
