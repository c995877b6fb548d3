package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is the durable record of one chat line. Immutable once
// persisted; the gateway never updates or deletes rows.
type ChatMessage struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	SenderID   UserID     `json:"senderId" gorm:"index;size:64"`
	SenderName string     `json:"senderName" gorm:"size:64"`
	RoomID     ChatRoomID `json:"roomId" gorm:"index;size:128"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"timestamp"`
}

// NewChatMessage stamps id and creation time; persistence happens later.
func NewChatMessage(sender UserID, senderName string, room ChatRoomID, text string) *ChatMessage {
	return &ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   sender,
		SenderName: senderName,
		RoomID:     room,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
}
