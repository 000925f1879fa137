//go:build integration

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"support_chat_service/internal/chat/domain"
	"support_chat_service/internal/chat/repository"
	"support_chat_service/pkg/config"
	"support_chat_service/pkg/database"
	"support_chat_service/pkg/middlewares"
	testtool "support_chat_service/pkg/test_tool"
	t_token "support_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// go test -tags integration ./internal/chat/app/...
func TestIntegration_SupportChat(t *testing.T) {
	ctx := context.Background()

	// **啟動 PostgreSQL**
	pgContainer, pgHost, pgPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "storefront",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	})
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	// **啟動 MongoDB**
	mongoContainer, mongoHost, mongoPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
	require.NoError(t, err, "Failed to start MongoDB container")
	t.Cleanup(func() { _ = mongoContainer.Terminate(ctx) })

	// **啟動 Redis**
	redisContainer, redisHost, redisPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = redisContainer.Terminate(ctx) })

	pgDSN := fmt.Sprintf("postgres://test:test@%s:%s/storefront?sslmode=disable", pgHost, pgPort)
	conn := database.Connection{ConnectStr: pgDSN, RetryCount: 5, RetryInterval: time.Second}

	gormDB, err := database.NewPGConnection(conn)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(gormDB))

	pool, err := database.NewDatabaseConnection(conn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	mongo, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", mongoHost, mongoPort),
		RetryCount:    5,
		RetryInterval: time.Second,
	}, "support_chat_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongo.Close(ctx) })
	require.NoError(t, repository.EnsureMongoIndexes(ctx, mongo.Database))

	redisClient, err := database.NewRedisClient("", nil, redisHost+":"+redisPort, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	t.Run("postgres store", func(t *testing.T) {
		runConversationFlow(t, NewConversationUseCase(ConversationDeps{
			Messages: repository.NewGormMessageRepository(gormDB),
			Cursors:  repository.NewGormReadCursorRepository(gormDB),
			Statuses: repository.NewGormSessionStatusRepository(gormDB),
		}, config.ChatConfig{}), "pg-session")
	})

	t.Run("mongo store", func(t *testing.T) {
		runConversationFlow(t, NewConversationUseCase(ConversationDeps{
			Messages: repository.NewMongoMessageRepository(mongo.Database),
			Cursors:  repository.NewMongoReadCursorRepository(mongo.Database),
			Statuses: repository.NewMongoSessionStatusRepository(mongo.Database),
		}, config.ChatConfig{}), "mongo-session")
	})

	t.Run("account directory", func(t *testing.T) {
		_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL)`)
		require.NoError(t, err)
		_, err = pool.Exec(ctx, `INSERT INTO users (id, name, email) VALUES ('alice', 'Alice', 'alice@example.com')`)
		require.NoError(t, err)

		accounts, err := repository.NewAccountRepository(pool).FindByIDs(ctx, []string{"alice", "ghost"})
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "alice@example.com", accounts["alice"].Email)
	})

	t.Run("idempotent send through redis", func(t *testing.T) {
		uc := NewConversationUseCase(ConversationDeps{
			Messages:    repository.NewGormMessageRepository(gormDB),
			Cursors:     repository.NewGormReadCursorRepository(gormDB),
			Statuses:    repository.NewGormSessionStatusRepository(gormDB),
			Idempotency: database.NewRedisRepository[domain.Message](redisClient, "chat:idem:"),
		}, config.ChatConfig{})

		in := SendInput{SessionID: "idem-session", Body: "retry me", IdempotencyKey: "client-42"}
		first, err := uc.SendAsCustomer(ctx, in)
		require.NoError(t, err)
		second, err := uc.SendAsCustomer(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		n, err := repository.NewGormMessageRepository(gormDB).CountBySession(ctx, "idem-session")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		// 同時送達的重複請求只寫入一次
		burst := SendInput{SessionID: "idem-burst", Body: "burst", IdempotencyKey: "client-43"}
		ids := make([]string, 5)
		var wg sync.WaitGroup
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if msg, err := uc.SendAsCustomer(ctx, burst); err == nil {
					ids[i] = msg.ID
				}
			}(i)
		}
		wg.Wait()
		require.NotEmpty(t, ids[0])
		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
		n, err = repository.NewGormMessageRepository(gormDB).CountBySession(ctx, "idem-burst")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("websocket push", func(t *testing.T) {
		notifier := repository.NewRedisPubSub(redisClient)
		uc := NewConversationUseCase(ConversationDeps{
			Messages: repository.NewGormMessageRepository(gormDB),
			Cursors:  repository.NewGormReadCursorRepository(gormDB),
			Statuses: repository.NewGormSessionStatusRepository(gormDB),
			Notifier: notifier,
		}, config.ChatConfig{BadgePoll: 200 * time.Millisecond, TranscriptPoll: 200 * time.Millisecond})
		handler := NewChatWebsocketHandler(uc, notifier)

		chatApp := fiber.New()
		chatApp.Get("/ws", middlewares.OptionalJWTMiddleware(), websocket.New(func(c *websocket.Conn) {
			handler.HandleConnection(context.Background(), c)
		}))
		go func() { _ = chatApp.Listen("127.0.0.1:18081") }()
		t.Cleanup(func() { _ = chatApp.Shutdown() })
		time.Sleep(time.Second)

		staffTok, err := t_token.GenerateJWT("staff-1", string(t_token.RoleAdmin), "support_service")
		require.NoError(t, err)

		// 客服監聽所有 session
		staffConn, _, err := gws.DefaultDialer.Dial("ws://127.0.0.1:18081/ws?auth="+staffTok, nil)
		require.NoError(t, err, "WebSocket 連線失敗")
		defer staffConn.Close()
		time.Sleep(200 * time.Millisecond)

		// 客人在自己的 session 送出訊息
		customerConn, _, err := gws.DefaultDialer.Dial("ws://127.0.0.1:18081/ws?session_id=ws-session", nil)
		require.NoError(t, err, "WebSocket 連線失敗")
		defer customerConn.Close()

		req, _ := json.Marshal(domain.WSRequest{Action: string(domain.SendMessage), Content: "Hello, support!"})
		require.NoError(t, customerConn.WriteMessage(gws.TextMessage, req))

		resp := readUntil(t, customerConn, string(domain.SendMessage))
		assert.True(t, resp.Success, resp.Error)

		pushed := readUntil(t, staffConn, string(domain.NotifyMessage))
		assert.Equal(t, "ws-session", pushed.Payload["session_id"])

		// 第一次推送可能早於客人留言
		for {
			badge := readUntil(t, staffConn, string(domain.PushUnread))
			if badge.Payload["count"] == float64(1) {
				break
			}
		}
	})
}

// runConversationFlow Scenario A 到 C 在真實資料庫上跑一次
func runConversationFlow(t *testing.T, uc *ConversationUseCase, sessionID string) {
	ctx := context.Background()
	staffID := domain.Identity{AccountID: ptr("staff-1"), IsStaff: true}

	_, err := uc.SendAsCustomer(ctx, SendInput{SessionID: sessionID, Body: "مرحبا"})
	require.NoError(t, err)

	page, err := uc.ListInbox(ctx, staffID, domain.InboxFilter{})
	require.NoError(t, err)
	found := false
	for _, s := range page.Sessions {
		if s.SessionID == sessionID {
			found = true
			assert.True(t, s.HasUnread)
		}
	}
	assert.True(t, found)

	_, err = uc.OpenSession(ctx, sessionID, staffID)
	require.NoError(t, err)
	_, err = uc.SendAsStaff(ctx, SendInput{SessionID: sessionID, Caller: staffID, Body: "كيفاش نجم نعاونك؟"})
	require.NoError(t, err)

	entries, err := uc.ListTranscript(ctx, sessionID, domain.Identity{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsRead)
	assert.False(t, entries[1].IsRead)

	n, err := uc.CustomerUnreadCount(ctx, domain.Identity{}, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	first, err := uc.MarkCompleted(ctx, sessionID, true, staffID)
	require.NoError(t, err)
	again, err := uc.MarkCompleted(ctx, sessionID, true, staffID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, again.IsCompleted)

	_, err = uc.SendAsStaff(ctx, SendInput{SessionID: sessionID, Caller: staffID, Body: "..."})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	_, err = uc.SendAsCustomer(ctx, SendInput{SessionID: sessionID, Body: "شكرا"})
	require.NoError(t, err)

	entries, err = uc.ListTranscript(ctx, sessionID, domain.Identity{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func readUntil(t *testing.T, conn *gws.Conn, action string) domain.WSResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "接收訊息失敗")
		var resp domain.WSResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		if resp.Action == action {
			return resp
		}
	}
}
