package dto

import "time"

type ChatRequestDTO struct {
	Message   string `json:"message" binding:"required,max=2000"`
	SessionID string `json:"session_id"`
}

type ChatResponseDTO struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type ChatMessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSessionDTO struct {
	SessionID   string    `json:"session_id"`
	LastMessage string    `json:"last_message"`
	UpdatedAt   time.Time `json:"updated_at"`
}
