package httpHandler

import (
	"net/http"
	"strconv"

	"chat-api/usecases"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	conversations *usecases.ConversationUseCase
}

func NewChatHandler(conversations *usecases.ConversationUseCase) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

type ChatCreateRequest struct {
	MessageContent string `json:"message_content" binding:"required"`
}

// CreateChat handles POST /api/v1/chats
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req ChatCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	created, err := h.conversations.StartChat(c.Request.Context(), currentUser(c), req.MessageContent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         created.Chat.ID,
		"name":       created.Chat.Name,
		"message_id": created.Message.ID,
		"reply":      created.Variation.Reply,
		"created_at": created.Message.CreatedAt,
	})
}

// GetChat handles GET /api/v1/chats/:id
func (h *ChatHandler) GetChat(c *gin.Context) {
	chat, err := h.conversations.GetChat(currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chat)
}

// ListChats handles GET /api/v1/chats
func (h *ChatHandler) ListChats(c *gin.Context) {
	skip, limit := pagination(c)

	chats, total, err := h.conversations.ListChats(currentUser(c), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  chats,
		"total": total,
	})
}

type ChatRenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameChat handles PUT /api/v1/chats/:id
func (h *ChatHandler) RenameChat(c *gin.Context) {
	var req ChatRenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	chat, err := h.conversations.RenameChat(currentUser(c), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chat)
}

// DeleteChat handles DELETE /api/v1/chats/:id
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	if err := h.conversations.DeleteChat(currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted"})
}

type MessageCreateRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostMessage handles POST /api/v1/chats/:id/message
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req MessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	created, err := h.conversations.PostMessage(c.Request.Context(), currentUser(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat_id":    created.Message.ChatID,
		"message_id": created.Message.ID,
		"content":    created.Variation.Reply,
	})
}

// ListMessages handles GET /api/v1/chats/:id/message
func (h *ChatHandler) ListMessages(c *gin.Context) {
	skip, limit := pagination(c)

	messages, err := h.conversations.ListMessages(currentUser(c), c.Param("id"), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// DeleteMessage handles DELETE /api/v1/chats/:id/message/:message_id
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	err := h.conversations.DeleteMessage(currentUser(c), c.Param("id"), c.Param("message_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

// PostVariation handles PUT /api/v1/chats/:id/message/:message_id
func (h *ChatHandler) PostVariation(c *gin.Context) {
	var req MessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	variation, err := h.conversations.PostVariation(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("message_id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": variation.Reply})
}

func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return skip, limit
}
