package app

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"support_chat_service/internal/chat/domain"
	"support_chat_service/internal/chat/repository"
	"support_chat_service/pkg/logger"
	"support_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const pingInterval = time.Minute

// ChatWebsocketHandler realtime channel: redis notifications plus polled badges and transcript
type ChatWebsocketHandler struct {
	uc       *ConversationUseCase
	notifier repository.Notifier
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(uc *ConversationUseCase, notifier repository.Notifier) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{uc: uc, notifier: notifier}
}

// wsConn fasthttp websocket 不允許併發寫入
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(resp domain.WSResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Log.Error("marshal websocket response", zap.Error(err))
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Debug("write message error", zap.Error(err))
	}
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.PingMessage, []byte("ping"))
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	who := identityFromWS(conn)
	originIP := originIPFromWS(conn)
	sessionID := conn.Query("session_id")
	out := &wsConn{conn: conn}

	ctxClose, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		logger.Log.Debug("websocket close", zap.String("session_id", sessionID))
		conn.Close()
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Debug("websocket closed by client", zap.Int("code", code), zap.String("text", text))
		return nil
	})

	// 1. 訂閱通知
	if channels := watchChannels(who, sessionID); len(channels) > 0 && h.notifier != nil {
		err := h.notifier.Subscribe(ctxClose, channels, func(n domain.Notification) {
			out.send(notificationResponse(n))
		})
		if err != nil {
			logger.Log.Warn("subscribe failed", zap.Strings("channels", channels), zap.Error(err))
		}
	}

	// 2. 定期推送未讀數與對話
	cfg := h.uc.Config()
	go NewPoller("unread", cfg.BadgePoll, func(ctx context.Context) (int, error) {
		return h.unreadCount(ctx, who, sessionID)
	}).Run(ctxClose, func(n int) {
		out.send(domain.WSResponse{Action: string(domain.PushUnread), Success: true, Payload: map[string]interface{}{"count": n}})
	})
	if sessionID != "" {
		go NewPoller("transcript", cfg.TranscriptPoll, func(ctx context.Context) ([]domain.TranscriptEntry, error) {
			return h.transcript(ctx, who, sessionID)
		}).Run(ctxClose, func(entries []domain.TranscriptEntry) {
			out.send(domain.WSResponse{Action: string(domain.PushTranscript), Success: true, Payload: map[string]interface{}{"session_id": sessionID, "messages": entries}})
		})
	}

	// 3. 定期發送 Ping
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := out.ping(); err != nil {
					logger.Log.Debug("ping error", zap.Error(err))
					cancel()
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		// 4. 讀取前端訊息
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Debug("connection closed", zap.Error(err))
			} else {
				logger.Log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			out.send(errorResponse("unsupported message type"))
			continue
		}

		var req domain.WSRequest
		if err := json.Unmarshal(message, &req); err != nil {
			out.send(errorResponse("invalid json"))
			continue
		}
		if req.SessionID == "" {
			req.SessionID = sessionID
		}
		out.send(h.handleRequest(ctxClose, who, originIP, req))
	}
}

func identityFromWS(conn *websocket.Conn) domain.Identity {
	return identityOf(conn.Locals(middlewares.TokenMemberID), conn.Locals(middlewares.TokenRole))
}

// originIPFromWS 連線建立時取一次, 之後每則訊息共用
func originIPFromWS(conn *websocket.Conn) string {
	if ip, ok := conn.Locals(middlewares.LocalOriginIP).(string); ok && ip != "" {
		return ip
	}
	if addr := conn.RemoteAddr(); addr != nil {
		if host, _, err := net.SplitHostPort(addr.String()); err == nil {
			return host
		}
		return addr.String()
	}
	return ""
}

// watchChannels staff watch every session, customers only their own
func watchChannels(who domain.Identity, sessionID string) []string {
	if who.Privileged() {
		return []string{domain.StaffChannel}
	}
	if sessionID != "" {
		return []string{domain.SessionChannel(sessionID)}
	}
	return nil
}

func (h *ChatWebsocketHandler) unreadCount(ctx context.Context, who domain.Identity, sessionID string) (int, error) {
	if who.Privileged() {
		return h.uc.StaffUnreadCount(ctx, who)
	}
	return h.uc.CustomerUnreadCount(ctx, who, sessionID)
}

func (h *ChatWebsocketHandler) transcript(ctx context.Context, who domain.Identity, sessionID string) ([]domain.TranscriptEntry, error) {
	if who.Privileged() {
		return h.uc.OpenSession(ctx, sessionID, who)
	}
	return h.uc.ListTranscript(ctx, sessionID, who)
}

// handleRequest 執行前端送來的 action
func (h *ChatWebsocketHandler) handleRequest(ctx context.Context, who domain.Identity, originIP string, req domain.WSRequest) domain.WSResponse {
	resp := domain.WSResponse{Action: req.Action, Payload: map[string]interface{}{}}
	role := domain.RoleCustomer
	if who.Privileged() {
		role = domain.RoleStaff
	}

	switch domain.Action(req.Action) {
	//傳送訊息
	case domain.SendMessage:
		in := SendInput{
			SessionID:      req.SessionID,
			Caller:         who,
			Body:           req.Content,
			OriginIP:       originIP,
			IdempotencyKey: req.IdempotencyKey,
		}
		var (
			msg *domain.Message
			err error
		)
		if role == domain.RoleStaff {
			msg, err = h.uc.SendAsStaff(ctx, in)
		} else {
			msg, err = h.uc.SendAsCustomer(ctx, in)
		}
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Success = true
		resp.Payload["message"] = msg

	//已讀
	case domain.ReadMessage:
		if err := h.uc.MarkRead(ctx, req.SessionID, role, who); err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Success = true

	default:
		return errorResponse("unknown action " + req.Action)
	}

	if resp.Error != "" {
		logger.Log.Debug("websocket action failed", zap.String("action", req.Action), zap.String("err", resp.Error))
	}
	return resp
}

func notificationResponse(n domain.Notification) domain.WSResponse {
	resp := domain.WSResponse{Success: true, Payload: map[string]interface{}{"session_id": n.SessionID}}
	switch n.Type {
	case domain.EventSessionStatus:
		resp.Action = string(domain.NotifyStatus)
		resp.Payload["status"] = n.Status
	default:
		resp.Action = string(domain.NotifyMessage)
		resp.Payload["message"] = n.Message
	}
	return resp
}

func errorResponse(msg string) domain.WSResponse {
	return domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{"error": msg},
	}
}
