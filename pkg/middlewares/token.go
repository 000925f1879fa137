package middlewares

import (
	"strings"

	"support_chat_service/pkg/logger"
	t_token "support_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenMemberID get account form token, set c.locals name
	TokenMemberID = "MemberID"
	//TokenRole get role form token, set c.locals name
	TokenRole = "role"
	//LocalOriginIP client ip captured before a websocket upgrade
	LocalOriginIP = "originIP"
)

// extractToken look for the token in the Authorization header, then query, then cookie
func extractToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if tokenStr := c.Query(QueryToken); tokenStr != "" {
		return tokenStr
	}
	return c.Cookies(CookieToken)
}

func setClaims(c *fiber.Ctx, claims *t_token.Claims) {
	c.Locals(TokenMemberID, claims.AccountID)
	c.Locals(TokenRole, claims.Role)
}

// JWTMiddleware validates JWT, rejects the request when missing or invalid
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		claims, err := t_token.ParseJWTWrapper(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalJWTMiddleware sets claims when a valid token is present.
// Missing, expired or broken tokens all continue as an anonymous caller.
func OptionalJWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			return c.Next()
		}

		claims, err := t_token.ParseJWTWrapper(tokenStr)
		if err != nil {
			logger.Log.Debug("ignore invalid token", zap.String("path", c.Path()), zap.Error(err))
			return c.Next()
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// ClientIP first X-Forwarded-For entry, else X-Real-IP, else the socket peer
func ClientIP(c *fiber.Ctx) string {
	return PickClientIP(c.Get(fiber.HeaderXForwardedFor), c.Get("X-Real-IP"), c.IP())
}

// PickClientIP the ClientIP order over raw header values, shared with websocket connections
func PickClientIP(forwardedFor, realIP, peer string) string {
	if forwardedFor != "" {
		if ip := strings.TrimSpace(strings.Split(forwardedFor, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}
	return peer
}
