package main

import (
	"support_chat_service/internal/chat/router"

	"github.com/gofiber/fiber/v2"
)

// 此程式僅用於 init swagger
// swag init -g main.go -o ./cmd/support_service/docs
func main() {
	// 创建 Fiber 应用
	app := fiber.New()

	// 注册路由
	router.RegisterRoutes(app, nil, nil)
}
