package models

import "time"

// ChatSession represents a live support chat session
type ChatSession struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        *uint      `gorm:"column:user_id;index" json:"user_id,omitempty"` // null for guests
	UserName      string     `gorm:"column:user_name;size:100" json:"user_name"`
	IsAuth        bool       `gorm:"column:is_auth;default:false" json:"is_auth"`
	Status        string     `gorm:"type:enum('active','ended');default:'active'" json:"status"`
	EndedAt       *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
	EndReason     string     `gorm:"column:end_reason;size:50" json:"end_reason,omitempty"` // 'user', 'timeout', 'auto'
	LastMessageAt time.Time  `gorm:"column:last_message_at" json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	User     *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage is one message in a support chat session
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"column:session_id;not null;index" json:"session_id"`
	Role      string    `gorm:"type:enum('user','assistant');not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Session *ChatSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
