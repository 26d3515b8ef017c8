package middleware

import (
	"strings"
	"time"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionKey is the gin context key holding the assembled session
	SessionKey = "session"

	// CartSessionHeader carries the guest cart identifier between requests
	CartSessionHeader = "X-Cart-Session"
)

// SessionMiddleware assembles the per-request Session. The commerce platform
// issues and validates tokens; the gateway only parses claims to derive a
// stable cart key and the identity shown in logs. A missing, expired or
// unparseable token downgrades the caller to a guest cart, it never blocks
// the request.
func SessionMiddleware() gin.HandlerFunc {
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)
		sess := &model.Session{}

		if token := bearerToken(c); token != "" {
			if claims := parseClaims(parser, token); claims != nil {
				sess.IsAuthenticated = true
				sess.Token = token
				sess.User = claims
				sess.CartKey = "user:" + claims.Subject
			} else {
				log.Debug("Unusable bearer token, continuing as guest", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
			}
		}

		if sess.CartKey == "" {
			guestID := c.GetHeader(CartSessionHeader)
			if _, err := uuid.Parse(guestID); err != nil {
				guestID = uuid.NewString()
			}
			sess.CartKey = "guest:" + guestID
			// Echo the identifier so the client can keep its cart.
			c.Writer.Header().Set(CartSessionHeader, guestID)
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// RequireAuth rejects requests whose session is not authenticated. It must
// run after SessionMiddleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok || !sess.IsAuthenticated {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession retrieves the session assembled by SessionMiddleware
func GetSession(c *gin.Context) (*model.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*model.Session)
	return sess, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// parseClaims decodes a token without verifying its signature. The platform
// is the authority on token validity; a locally visible expiry still
// downgrades to guest so we never send a token we know is dead.
func parseClaims(parser *jwt.Parser, token string) *model.UserClaims {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil
	}

	user := &model.UserClaims{Subject: sub}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	return user
}
