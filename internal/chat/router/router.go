package router

import (
	"context"

	"support_chat_service/internal/chat/app"
	"support_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 注册客服聊天相关的路由
// @title Support Chat Service API
// @version 1.0
// @description Storefront support chat between customers and staff
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func RegisterRoutes(r *fiber.App, handler *app.ConversationHandler, chatWebsocket *app.ChatWebsocketHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", app.ConnectCheck)
	r.Post("/debug", app.DebugLogFlag)

	// 客人端: 未登入也可使用, 有 token 時帶入帳號
	chat := r.Group("/chat", middlewares.OptionalJWTMiddleware())
	chat.Get("/unread", handler.CustomerUnreadCount)
	chat.Post("/sessions/:sessionId/messages", handler.SendAsCustomer)
	chat.Get("/sessions/:sessionId/messages", handler.ListTranscript)
	chat.Post("/sessions/:sessionId/read", handler.MarkReadAsCustomer)

	// 客服端
	admin := r.Group("/admin/chat", middlewares.JWTMiddleware())
	admin.Get("/inbox", handler.ListInbox)
	admin.Get("/unread", handler.StaffUnreadCount)
	admin.Get("/sessions/:sessionId/messages", handler.OpenSession)
	admin.Post("/sessions/:sessionId/messages", handler.SendAsStaff)
	admin.Post("/sessions/:sessionId/read", handler.MarkReadAsStaff)
	admin.Put("/sessions/:sessionId/completion", handler.MarkCompleted)
	admin.Get("/sessions/:sessionId/status", handler.GetSessionStatus)

	if chatWebsocket != nil {
		r.Get("/ws", middlewares.OptionalJWTMiddleware(), func(c *fiber.Ctx) error {
			if !websocket.IsWebSocketUpgrade(c) {
				return fiber.ErrUpgradeRequired
			}
			// upgrade 之後拿不到 fiber.Ctx, 先記下來源 IP
			c.Locals(middlewares.LocalOriginIP, middlewares.ClientIP(c))
			return c.Next()
		}, websocket.New(func(c *websocket.Conn) {
			chatWebsocket.HandleConnection(context.Background(), c)
		}))
	}
}
