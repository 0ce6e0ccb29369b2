package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BearerActor extracts the caller identity from a bearer token issued by the
// external auth service, for audit attribution only. Requests without a
// token, or with one that fails validation, proceed anonymously: this
// middleware never rejects.
func BearerActor(secret, issuer string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		token, err := jwt.Parse(authHeader[7:], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			log.Debug().Err(err).Msg("bearer token rejected, continuing anonymously")
			c.Next()
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil {
			c.Next()
			return
		}
		actorID, err := uuid.Parse(sub)
		if err != nil {
			c.Next()
			return
		}

		c.Set(CtxActorID, actorID)
		c.Next()
	}
}
