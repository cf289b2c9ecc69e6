package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/portfolio/internal/domains/chat"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/clientinfo"
	"github.com/xpanvictor/portfolio/pkg/geoip"
)

// chatBodyLimit bounds the encoded request: a full history with every rune
// escaped as a surrogate pair, plus room for keys and the session id.
const chatBodyLimit = chat.MaxMessages*(chat.MaxMessageLength*12+64) + chat.MaxSessionIDLength + 1024

type ChatHandler struct {
	gate           *chat.Gate
	relay          *chat.Relay
	chatService    chat.ChatService
	userService    user.UserService
	locator        geoip.Locator
	trustForwarded bool
	logger         *Logger.Logger
}

func NewChatHandler(
	gate *chat.Gate,
	relay *chat.Relay,
	chatService chat.ChatService,
	userService user.UserService,
	locator geoip.Locator,
	trustForwarded bool,
	logger *Logger.Logger,
) *ChatHandler {
	if locator == nil {
		locator = geoip.Noop{}
	}
	return &ChatHandler{
		gate:           gate,
		relay:          relay,
		chatService:    chatService,
		userService:    userService,
		locator:        locator,
		trustForwarded: trustForwarded,
		logger:         logger,
	}
}

func (h *ChatHandler) sessionMeta(c *gin.Context, ip string) chat.SessionMeta {
	ua := c.Request.UserAgent()
	agent := clientinfo.ParseUserAgent(ua)
	loc := h.locator.Locate(ip)
	return chat.SessionMeta{
		IPAddress: ip,
		UserAgent: ua,
		Device:    agent.Device,
		Browser:   agent.Browser,
		OS:        agent.OS,
		Country:   loc.Country,
		City:      loc.City,
	}
}

// Chat streams an assistant reply
// @Summary Ask the portfolio assistant
// @Description Streams the reply as server-sent events: data: {"content": "..."} frames, then data: [DONE]
// @Tags Chat
// @Accept json
// @Produce text/event-stream
// @Param request body chat.Request true "Conversation so far"
// @Success 200 {object} StreamChunk "Event stream"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Chat unavailable"
// @Router /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	ip := clientIP(c, h.trustForwarded)

	// admission runs before the body is even read
	if ok, retry := h.gate.Allow(ip); !ok {
		seconds := int(math.Ceil(retry.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: chat.PublicMessage(chat.RateLimited.New("%s", ip))})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, chatBodyLimit)
	var raw chat.Request
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	req, err := chat.Validate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: chat.PublicMessage(err)})
		return
	}

	state, err := h.relay.Serve(c.Request.Context(), req, h.sessionMeta(c, ip), newSSESink(c))
	if err != nil {
		if ctxErr := c.Request.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			h.logger.Debugf("chat client left before the reply started: %v", err)
			return
		}
		h.logger.Errorf("chat request failed before streaming: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: chat.PublicMessage(err)})
		return
	}
	h.logger.Debugf("chat request for %s finished in state %s", req.SessionID, state)
}

// ListChats lists recorded chat sessions, or returns one when sessionId is set
// @Summary List chat sessions (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param sessionId query string false "Session ID; returns that session with its messages"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Matches token, location, browser, device or message content"
// @Success 200 {object} ListSessionsResponse "Sessions page, or SessionResponse when sessionId is given"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /chats [get]
func (h *ChatHandler) ListChats(c *gin.Context) {
	if id := c.Query("sessionId"); id != "" {
		session, err := h.chatService.GetSession(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, chat.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "Session not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch session"})
			return
		}
		c.JSON(http.StatusOK, SessionResponse{Session: *session})
		return
	}

	page, limit := pageParams(c, chat.DefaultPageSize, chat.MaxPageSize)
	q := chat.ListSessionsQuery{Page: page, Limit: limit, Search: c.Query("search")}.Normalize()
	sessions, total, err := h.chatService.ListSessions(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch chat sessions"})
		return
	}
	if sessions == nil {
		sessions = []chat.Session{}
	}

	c.JSON(http.StatusOK, ListSessionsResponse{
		Sessions:   sessions,
		Pagination: newPageInfo(q.Page, q.Limit, total),
	})
}

// DeleteChat deletes a session and its messages
// @Summary Delete chat session (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param sessionId query string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Session ID required"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /chats [delete]
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	id := c.Query("sessionId")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Session ID required"})
		return
	}

	if err := h.chatService.DeleteSession(c.Request.Context(), id); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete session"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *ChatHandler) RegisterChatRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)

	admin := r.Group("/chats")
	admin.Use(AuthMiddleware(h.userService, h.logger), AdminMiddleware())
	{
		admin.GET("", h.ListChats)
		admin.DELETE("", h.DeleteChat)
	}
}
