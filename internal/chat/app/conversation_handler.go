package app

import (
	"errors"
	"strconv"

	"support_chat_service/internal/chat/domain"
	"support_chat_service/pkg/logger"
	"support_chat_service/pkg/middlewares"
	t_token "support_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdempotencyHeader optional client token that makes a send safe to retry
const IdempotencyHeader = "Idempotency-Key"

// ConversationHandler 处理客服聊天相关的 HTTP 请求
type ConversationHandler struct {
	uc *ConversationUseCase
}

// NewConversationHandler create ConversationHandler
func NewConversationHandler(uc *ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{uc: uc}
}

// SendMessageReq send message body
type SendMessageReq struct {
	Message string `json:"message" example:"مرحبا"`
}

// CompletionReq completion toggle body
type CompletionReq struct {
	Completed bool `json:"completed"`
}

// CountRes unread badge
type CountRes struct {
	Count int `json:"count"`
}

// ErrorRes error body
type ErrorRes struct {
	Error string `json:"error"`
}

// identityFrom build the caller identity from what the JWT middleware left in Locals
func identityFrom(c *fiber.Ctx) domain.Identity {
	return identityOf(c.Locals(middlewares.TokenMemberID), c.Locals(middlewares.TokenRole))
}

func identityOf(accountLocal, roleLocal interface{}) domain.Identity {
	var id domain.Identity
	if accountID, ok := accountLocal.(string); ok && accountID != "" {
		id.AccountID = &accountID
	}
	if role, ok := roleLocal.(string); ok {
		id.IsStaff = t_token.RoleType(role) == t_token.RoleAdmin
	}
	return id
}

// statusOf map error kinds onto HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrSessionClosed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	if code == fiber.StatusInternalServerError {
		logger.Log.Error("chat request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(code).JSON(ErrorRes{Error: "internal error"})
	}
	return c.Status(code).JSON(ErrorRes{Error: err.Error()})
}

func (h *ConversationHandler) send(c *fiber.Ctx, staff bool) error {
	var req SendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorRes{Error: "invalid request"})
	}

	in := SendInput{
		SessionID:      c.Params("sessionId"),
		Caller:         identityFrom(c),
		Body:           req.Message,
		OriginIP:       middlewares.ClientIP(c),
		IdempotencyKey: c.Get(IdempotencyHeader),
	}

	var (
		msg *domain.Message
		err error
	)
	if staff {
		msg, err = h.uc.SendAsStaff(c.UserContext(), in)
	} else {
		msg, err = h.uc.SendAsCustomer(c.UserContext(), in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// SendAsCustomer 客人送出訊息
// @Summary Send a customer message
// @Description Anyone holding the session id may post; completed sessions still accept customer messages
// @Tags Chat
// @Accept json
// @Produce json
// @Param sessionId path string true "Session id"
// @Param Idempotency-Key header string false "Retry token"
// @Param request body SendMessageReq true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorRes
// @Router /chat/sessions/{sessionId}/messages [post]
func (h *ConversationHandler) SendAsCustomer(c *fiber.Ctx) error {
	return h.send(c, false)
}

// ListTranscript 客人讀取對話
// @Summary Customer transcript
// @Description Oldest messages first, each flagged with whether the other side has read it
// @Tags Chat
// @Produce json
// @Param sessionId path string true "Session id"
// @Success 200 {array} domain.TranscriptEntry
// @Failure 400 {object} ErrorRes
// @Router /chat/sessions/{sessionId}/messages [get]
func (h *ConversationHandler) ListTranscript(c *fiber.Ctx) error {
	entries, err := h.uc.ListTranscript(c.UserContext(), c.Params("sessionId"), identityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

// MarkReadAsCustomer 客人已讀
// @Summary Mark a session read as the customer
// @Tags Chat
// @Param sessionId path string true "Session id"
// @Success 204
// @Failure 400 {object} ErrorRes
// @Router /chat/sessions/{sessionId}/read [post]
func (h *ConversationHandler) MarkReadAsCustomer(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("sessionId"), domain.RoleCustomer, identityFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CustomerUnreadCount 客人未讀數
// @Summary Customer unread badge
// @Description Signed-in customers are counted over all their sessions, anonymous ones over session_id
// @Tags Chat
// @Produce json
// @Param session_id query string false "Session id of an anonymous visitor"
// @Success 200 {object} CountRes
// @Router /chat/unread [get]
func (h *ConversationHandler) CustomerUnreadCount(c *fiber.Ctx) error {
	n, err := h.uc.CustomerUnreadCount(c.UserContext(), identityFrom(c), c.Query("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(CountRes{Count: n})
}

// ListInbox 客服收件匣
// @Summary Staff inbox
// @Description One row per customer session, newest activity first
// @Tags Admin Chat
// @Produce json
// @Param page query int false "Page, from 1"
// @Param page_size query int false "Page size, at most 100"
// @Param show_completed query bool false "true only completed, false only open, absent all"
// @Success 200 {object} domain.InboxPage
// @Failure 403 {object} ErrorRes
// @Router /admin/chat/inbox [get]
func (h *ConversationHandler) ListInbox(c *fiber.Ctx) error {
	filter := domain.InboxFilter{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	}
	if raw := c.Query("show_completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorRes{Error: "show_completed must be a boolean"})
		}
		filter.ShowCompleted = &v
	}

	page, err := h.uc.ListInbox(c.UserContext(), identityFrom(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// StaffUnreadCount 客服未讀數
// @Summary Staff unread badge
// @Description Number of sessions with a customer message newer than the caller's cursor
// @Tags Admin Chat
// @Produce json
// @Success 200 {object} CountRes
// @Failure 403 {object} ErrorRes
// @Router /admin/chat/unread [get]
func (h *ConversationHandler) StaffUnreadCount(c *fiber.Ctx) error {
	n, err := h.uc.StaffUnreadCount(c.UserContext(), identityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(CountRes{Count: n})
}

// OpenSession 客服開啟對話
// @Summary Open a session as staff
// @Description Marks the session read for the caller and returns the newest messages oldest first
// @Tags Admin Chat
// @Produce json
// @Param sessionId path string true "Session id"
// @Success 200 {array} domain.TranscriptEntry
// @Failure 403 {object} ErrorRes
// @Router /admin/chat/sessions/{sessionId}/messages [get]
func (h *ConversationHandler) OpenSession(c *fiber.Ctx) error {
	entries, err := h.uc.OpenSession(c.UserContext(), c.Params("sessionId"), identityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

// SendAsStaff 客服回覆
// @Summary Reply as staff
// @Tags Admin Chat
// @Accept json
// @Produce json
// @Param sessionId path string true "Session id"
// @Param Idempotency-Key header string false "Retry token"
// @Param request body SendMessageReq true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorRes
// @Failure 403 {object} ErrorRes
// @Failure 409 {object} ErrorRes "session completed"
// @Router /admin/chat/sessions/{sessionId}/messages [post]
func (h *ConversationHandler) SendAsStaff(c *fiber.Ctx) error {
	return h.send(c, true)
}

// MarkReadAsStaff 客服已讀
// @Summary Mark a session read as staff
// @Tags Admin Chat
// @Param sessionId path string true "Session id"
// @Success 204
// @Failure 403 {object} ErrorRes
// @Router /admin/chat/sessions/{sessionId}/read [post]
func (h *ConversationHandler) MarkReadAsStaff(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("sessionId"), domain.RoleStaff, identityFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkCompleted 客服結案或重開
// @Summary Complete or reopen a session
// @Tags Admin Chat
// @Accept json
// @Produce json
// @Param sessionId path string true "Session id"
// @Param request body CompletionReq true "Completion flag"
// @Success 200 {object} domain.SessionStatus
// @Failure 403 {object} ErrorRes
// @Router /admin/chat/sessions/{sessionId}/completion [put]
func (h *ConversationHandler) MarkCompleted(c *fiber.Ctx) error {
	var req CompletionReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorRes{Error: "invalid request"})
	}

	status, err := h.uc.MarkCompleted(c.UserContext(), c.Params("sessionId"), req.Completed, identityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status)
}

// GetSessionStatus 查詢結案狀態
// @Summary Session completion status
// @Tags Admin Chat
// @Produce json
// @Param sessionId path string true "Session id"
// @Success 200 {object} domain.SessionStatus
// @Failure 403 {object} ErrorRes
// @Router /admin/chat/sessions/{sessionId}/status [get]
func (h *ConversationHandler) GetSessionStatus(c *fiber.Ctx) error {
	status, err := h.uc.GetSessionStatus(c.UserContext(), c.Params("sessionId"), identityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status)
}
