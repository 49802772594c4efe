package handler

import (
	"net/http"
	"strconv"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles the REST side of messaging: conversations, history,
// and sending (real-time delivery rides the websocket hub).
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(cs service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: cs}
}

type startConversationRequest struct {
	UserID   string `json:"user_id"`
	DoctorID string `json:"doctor_id"`
}

// StartConversation finds or creates the thread between the caller and the
// named counterpart.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	var userID, doctorID string
	switch actor.Role {
	case model.RoleUser:
		userID, doctorID = actor.ID, req.DoctorID
	case model.RoleDoctor:
		userID, doctorID = req.UserID, actor.ID
	}
	if userID == "" || doctorID == "" {
		respondError(c, http.StatusBadRequest, "counterpart id is required")
		return
	}

	conv, err := h.chatService.GetOrCreateConversation(c.Request.Context(), userID, doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": conv})
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	conversations, err := h.chatService.ListConversations(c.Request.Context(), actor.Role, actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": conversations})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), c.Param("id"), actor.Role, actor.ID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), c.Param("id"), actor.Role, actor.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "message sent", "data": msg})
}

// RegisterChatRoutes registers conversation and message routes. Only users
// and doctors take part in chat.
func (h *ChatHandler) RegisterChatRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	chatGroup := rg.Group("/chat", authMW, middleware.RequireRoles(model.RoleUser, model.RoleDoctor))
	{
		chatGroup.POST("/conversations", h.StartConversation)
		chatGroup.GET("/conversations", h.ListConversations)
		chatGroup.GET("/conversations/:id/messages", h.ListMessages)
		chatGroup.POST("/conversations/:id/messages", h.SendMessage)
	}
}
