package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

// Support chat. Guests and logged-in customers share the same endpoints; an
// AI assistant answers first-line questions about orders, bundles and result
// checkers.

const chatSystemPrompt = `You are the support assistant for Smart Data Store, a Ghanaian shop selling mobile data bundles (MTN, Telecel, AirtelTigo) and WAEC/BECE result checker PINs. Help customers check order status (they need their order reference, starting with SDS-), explain bundle delivery times (usually under 30 minutes after payment) and how result checker cards are delivered. If you cannot help, tell the customer an agent will follow up in this chat.`

type StartChatRequest struct {
	Name string `json:"name,omitempty"` // optional, for guests
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type chatMessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// StartChatHandler starts a new chat session
func StartChatHandler(w http.ResponseWriter, r *http.Request) {
	var req StartChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	db := database.DB
	var userID *uint
	var userName string
	var isAuth bool

	// Token is optional here: guests chat too
	if authUserID, err := utils.ExtractUserIDFromRequest(r); err == nil && authUserID > 0 {
		isAuth = true
		userID = &authUserID
		var user models.User
		if err := db.First(&user, authUserID).Error; err == nil {
			userName = user.Name
		} else {
			userName = "User"
		}
	} else {
		if req.Name != "" {
			userName = strings.TrimSpace(req.Name)
		} else {
			userName = "Guest"
		}
	}

	session := models.ChatSession{
		UserID:        userID,
		UserName:      userName,
		IsAuth:        isAuth,
		Status:        "active",
		LastMessageAt: time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to start chat"})
		return
	}

	greeting := models.ChatMessage{
		SessionID: session.ID,
		Role:      "assistant",
		Content:   "Hello " + userName + "! How can I help you today?",
	}
	_ = db.Create(&greeting).Error

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Chat started", Data: map[string]interface{}{
		"session_id": session.ID,
		"status":     session.Status,
		"message":    greeting.Content,
	}})
}

// SendMessageHandler stores the user's message and replies with the assistant
func SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.Atoi(mux.Vars(r)["session_id"])
	if err != nil || sessionID <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid session id"})
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Message is required"})
		return
	}

	db := database.DB
	var session models.ChatSession
	if err := db.First(&session, sessionID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Session not found"})
		return
	}
	if session.Status != "active" {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "This chat has ended"})
		return
	}

	userMsg := models.ChatMessage{SessionID: session.ID, Role: "user", Content: strings.TrimSpace(req.Message)}
	if err := db.Create(&userMsg).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to send message"})
		return
	}

	// Build conversation context from the last messages
	var history []models.ChatMessage
	_ = db.Where("session_id = ?", session.ID).Order("id DESC").Limit(20).Find(&history).Error
	aiMessages := make([]utils.ChatAIMessage, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		aiMessages = append(aiMessages, utils.ChatAIMessage{Role: history[i].Role, Content: history[i].Content})
	}

	reply, err := utils.CallChatAI(aiMessages, chatSystemPrompt)
	if err != nil {
		log.Printf("[livechat] AI reply failed for session %d: %v", session.ID, err)
		reply = "Sorry, I could not process that right now. An agent will follow up in this chat."
	}

	assistantMsg := models.ChatMessage{SessionID: session.ID, Role: "assistant", Content: reply}
	_ = db.Create(&assistantMsg).Error
	_ = db.Model(&session).Update("last_message_at", time.Now()).Error

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Reply", Data: map[string]interface{}{
		"session_id": session.ID,
		"message":    reply,
		"status":     session.Status,
	}})
}

// GetChatHistoryHandler returns a session transcript
func GetChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.Atoi(mux.Vars(r)["session_id"])
	if err != nil || sessionID <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid session id"})
		return
	}

	db := database.DB
	var session models.ChatSession
	if err := db.Preload("Messages").First(&session, sessionID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Session not found"})
		return
	}

	messages := make([]chatMessageDTO, 0, len(session.Messages))
	for _, m := range session.Messages {
		messages = append(messages, chatMessageDTO{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "History", Data: map[string]interface{}{
		"session_id": session.ID,
		"status":     session.Status,
		"messages":   messages,
		"created_at": session.CreatedAt,
		"ended_at":   session.EndedAt,
	}})
}

// EndChatHandler closes a session
func EndChatHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.Atoi(mux.Vars(r)["session_id"])
	if err != nil || sessionID <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid session id"})
		return
	}

	db := database.DB
	var session models.ChatSession
	if err := db.First(&session, sessionID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Session not found"})
		return
	}
	if session.Status == "ended" {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Chat already ended"})
		return
	}

	now := time.Now()
	if err := db.Model(&session).Updates(map[string]interface{}{
		"status":     "ended",
		"ended_at":   now,
		"end_reason": "user",
	}).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to end chat"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Chat ended"})
}
