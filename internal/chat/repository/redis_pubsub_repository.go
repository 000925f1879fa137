package repository

import (
	"context"
	"encoding/json"

	"support_chat_service/internal/chat/domain"
	"support_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Notifier realtime fan-out of chat notifications
type Notifier interface {
	Publish(ctx context.Context, channel string, n domain.Notification) error
	// Subscribe 訂閱 channels, 直到 ctx 結束前收到的通知都交給 handler
	Subscribe(ctx context.Context, channels []string, handler func(domain.Notification)) error
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

// Publish 將 notification 序列化後，發布到指定 channel
func (r *RedisPubSub) Publish(ctx context.Context, channel string, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

// Subscribe 收到訊息後呼叫 handler 處理
func (r *RedisPubSub) Subscribe(ctx context.Context, channels []string, handler func(domain.Notification)) error {
	sub := r.client.Subscribe(ctx, channels...)
	// 確認訂閱成功再回傳
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var n domain.Notification
				if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
					logger.Log.Warn("drop malformed notification", zap.String("channel", m.Channel), zap.Error(err))
					continue
				}
				handler(n)
			case <-ctx.Done():
				logger.Log.Debug("subscription closed", zap.Strings("channels", channels))
				return
			}
		}
	}()
	return nil
}
