package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionCookie = "comparison_session"

type Claims struct {
	UserId uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

type MiddlewaresI interface {
	Session() gin.HandlerFunc
	OptionalUser() gin.HandlerFunc
}

type Middlewares struct {
	secretKey string
	host      string
	port      string
}

func NewMiddlewares(secretKey string, host string, port string) MiddlewaresI {
	return &Middlewares{
		secretKey: secretKey,
		host:      host,
		port:      port,
	}
}

// Session attaches the browsing-session id from the comparison cookie,
// issuing a fresh one when the cookie is absent or unparsable. The cookie
// is session-scoped (no max-age), matching the lifetime of the selection.
func (middlewares *Middlewares) Session() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cookie, err := ctx.Cookie(SessionCookie)
		sessionId, parseErr := uuid.Parse(cookie)
		if err != nil || parseErr != nil {
			sessionId = uuid.New()
			ctx.SetCookie(SessionCookie, sessionId.String(), 0, "/", "", false, true)
		}
		ctx.Set("session_id", sessionId)
		ctx.Next()
	}
}

// OptionalUser attaches the authenticated user id when a valid bearer token
// is present. Anonymous requests pass through untouched; sharing does not
// require an account.
func (middlewares *Middlewares) OptionalUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Next()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		tokenClaims := &Claims{}
		_, err := jwt.ParseWithClaims(token, tokenClaims, func(t *jwt.Token) (interface{}, error) {
			return []byte(middlewares.secretKey), nil
		})
		if err == nil && tokenClaims.UserId != uuid.Nil {
			ctx.Set("user_id", tokenClaims.UserId)
		}
		ctx.Next()
	}
}
