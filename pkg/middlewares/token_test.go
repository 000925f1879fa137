package middlewares

import (
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"support_chat_service/pkg/logger"
	t_token "support_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func newApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/who", h, func(c *fiber.Ctx) error {
		id, _ := c.Locals(TokenMemberID).(string)
		role, _ := c.Locals(TokenRole).(string)
		return c.SendString(id + "|" + role)
	})
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(ClientIP(c))
	})
	return app
}

func body(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestJWTMiddleware(t *testing.T) {
	app := newApp(JWTMiddleware())
	tok, err := t_token.GenerateJWT("staff-1", "admin", "test")
	require.NoError(t, err)

	code, _ := body(t, app, "/who", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, out := body(t, app, "/who", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "staff-1|admin", out)

	code, out = body(t, app, "/who?auth="+tok, nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "staff-1|admin", out)

	code, _ = body(t, app, "/who", map[string]string{"Authorization": "Bearer broken"})
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestOptionalJWTMiddleware(t *testing.T) {
	app := newApp(OptionalJWTMiddleware())

	code, out := body(t, app, "/who", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "|", out)

	tok, err := t_token.GenerateJWT("cust-1", "user", "test")
	require.NoError(t, err)
	_, out = body(t, app, "/who", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, "cust-1|user", out)

	// 壞掉或過期的 token 當作匿名
	code, out = body(t, app, "/who", map[string]string{"Authorization": "Bearer broken"})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "|", out)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, t_token.Claims{
		AccountID: "cust-1",
		Role:      "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	stale, err := expired.SignedString(t_token.JWTSecret)
	require.NoError(t, err)
	code, out = body(t, app, "/who", map[string]string{"Cookie": CookieToken + "=" + stale})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "|", out)
}

func TestClientIP(t *testing.T) {
	app := newApp(OptionalJWTMiddleware())

	_, out := body(t, app, "/ip", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1", "X-Real-IP": "198.51.100.2"})
	assert.Equal(t, "203.0.113.9", out)

	_, out = body(t, app, "/ip", map[string]string{"X-Real-IP": "198.51.100.2"})
	assert.Equal(t, "198.51.100.2", out)
}

func TestPickClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.9", PickClientIP(" 203.0.113.9 , 10.0.0.1", "198.51.100.2", "127.0.0.1"))
	assert.Equal(t, "198.51.100.2", PickClientIP("", "198.51.100.2", "127.0.0.1"))
	assert.Equal(t, "198.51.100.2", PickClientIP(" , 10.0.0.1", "198.51.100.2", "127.0.0.1"))
	assert.Equal(t, "127.0.0.1", PickClientIP("", "", "127.0.0.1"))
}
