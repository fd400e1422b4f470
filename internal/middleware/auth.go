package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the context key of the authenticated user id.
const UserIDKey = "uid"

var errNoUser = errors.New("token carries no user id")

// JWTAuth accepts HMAC-signed bearer tokens and stores the user id from the
// "uid" (or "user_id") claim in the context. The request logger is tagged
// with the user.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Потрібна авторизація")
			return
		}

		uid, err := parseUserID(strings.TrimSpace(token), key)
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Warn("Rejected bearer token", map[string]interface{}{
					"error": err.Error(),
					"ip":    c.ClientIP(),
				})
			}
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Недійсний або прострочений токен")
			return
		}

		c.Set(UserIDKey, uid)
		if log := GetLogger(c); log != nil {
			c.Set(LoggerKey, log.WithUser(uid))
		}
		c.Next()
	}
}

func parseUserID(tokenString string, key []byte) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errNoUser
	}
	for _, name := range []string{"uid", "user_id"} {
		switch v := claims[name].(type) {
		case float64:
			return int64(v), nil
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				return id, nil
			}
		}
	}
	return 0, errNoUser
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := v.(int64)
	return uid, ok
}
