package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "support_chat_service/cmd/support_service/docs" // 引入生成的 Swagger 文档
	"support_chat_service/internal/chat/app"
	"support_chat_service/internal/chat/domain"
	"support_chat_service/internal/chat/repository"
	"support_chat_service/internal/chat/router"
	"support_chat_service/pkg/config"
	"support_chat_service/pkg/database"
	"support_chat_service/pkg/logger"
	testtool "support_chat_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.SupportService, config.EnvConfig.SupportServiceLogPath)
	defer logger.Log.Sync()

	cfg := config.LoadConfig[config.Support](config.EnvConfig.SupportService, config.EnvConfig.SupportServiceYAMLPath)
	ctx := context.Background()

	// 1. 連線 PostgreSQL (帳號資料, 預設也存聊天)
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	pgConn := database.Connection{
		ConnectStr:    dsn,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval) * time.Second,
	}
	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", cfg.PostgreSQL.Host, cfg.PostgreSQL.Port)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	// 2. 依設定選擇聊天資料的 store
	deps := app.ConversationDeps{
		Accounts: repository.NewAccountRepository(pool),
	}
	switch cfg.Store.Driver {
	case "mongo":
		uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
		mongo, err := database.NewMongoDB(ctx,
			database.Connection{
				ConnectStr:    uri,
				RetryCount:    cfg.MongoSQL.RetryCount,
				RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval) * time.Second,
			},
			cfg.MongoSQL.Database)
		if err != nil {
			logger.Log.Fatal(
				"Unable to connect to mongoDB database after retries",
				zap.String("address", fmt.Sprintf("[%s:%d]", cfg.MongoSQL.Host, cfg.MongoSQL.Port)),
				zap.Error(err),
			)
		}
		defer mongo.Close(ctx)

		if err := repository.EnsureMongoIndexes(ctx, mongo.Database); err != nil {
			logger.Log.Fatal("create mongo indexes failed", zap.Error(err))
		}
		deps.Messages = repository.NewMongoMessageRepository(mongo.Database)
		deps.Cursors = repository.NewMongoReadCursorRepository(mongo.Database)
		deps.Statuses = repository.NewMongoSessionStatusRepository(mongo.Database)
	default:
		db, err := database.NewPGConnection(pgConn)
		if err != nil {
			logger.Log.Fatal("Unable to open gorm connection", zap.Error(err))
		}
		// 自動遷移聊天資料表
		if err := repository.Migrate(db); err != nil {
			log.Fatalf("資料表遷移失敗: %v", err)
		}
		deps.Messages = repository.NewGormMessageRepository(db)
		deps.Cursors = repository.NewGormReadCursorRepository(db)
		deps.Statuses = repository.NewGormSessionStatusRepository(db)
	}
	logger.Log.Info("chat store ready", zap.String("driver", cfg.Store.Driver))

	// 3. 建立 Redis 連線 (Pub/Sub, idempotency)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	defer redisClient.Close()

	notifier := repository.NewRedisPubSub(redisClient)
	deps.Notifier = notifier
	deps.Idempotency = database.NewRedisRepository[domain.Message](redisClient, "chat:idem:")

	// 4. 事件輸出
	events := newEventPublisher(cfg)
	defer events.Close()
	deps.Events = events

	// 5. 初始化 UseCase 與 handler
	uc := app.NewConversationUseCase(deps, cfg.Chat)

	testtool.StartPprof(":6060")

	// 6. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.SupportServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
	}))

	// 注册路由
	router.RegisterRoutes(r, app.NewConversationHandler(uc), app.NewChatWebsocketHandler(uc, notifier))

	// Listen
	port := ":" + cfg.Port
	logger.Log.Info("Support Service listening", zap.String("port", port))
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}

func newEventPublisher(cfg config.Support) repository.EventPublisher {
	switch cfg.Events.Driver {
	case "kafka":
		w, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval) * time.Second,
		})
		if err != nil {
			logger.Log.Fatal("Kafka 連線失敗", zap.Strings("brokers", cfg.Kafka.Brokers), zap.Error(err))
		}
		return repository.NewKafkaEventPublisher(w)

	case "rabbitmq":
		rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
		retry := time.Duration(cfg.RabbitMQ.RetryInterval) * time.Second
		conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
			ConnectStr:    rabbitURL,
			RetryCount:    cfg.RabbitMQ.RetryCount,
			RetryInterval: retry,
		})
		if err != nil {
			log.Fatalf("RabbitMQ 連線失敗: %v", err)
		}
		ch, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.Queue, cfg.RabbitMQ.RetryCount, retry)
		if err != nil {
			log.Fatalf("RabbitMQ channel 建立失敗: %v", err)
		}
		return repository.NewRabbitEventPublisher(database.NewRabbitRepository(ch), cfg.RabbitMQ.Queue)

	default:
		logger.Log.Info("chat events disabled")
		return repository.NewNoopEventPublisher()
	}
}
