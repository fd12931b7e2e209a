package model

import "github.com/google/uuid"

type Role string

const (
	RoleMember    Role = "member"
	RoleExecutive Role = "executive"
	RoleAdmin     Role = "admin"
)

type Profile struct {
	UserID         uuid.UUID `json:"user_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	TelegramChatID string    `json:"telegram_chat_id"`
	Role           Role      `json:"role"`
}

type Group struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
