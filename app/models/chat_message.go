package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one direct message between two users.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver" json:"receiver"`
	Message   string             `bson:"message" json:"message"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ChatMessageView resolves both participants for history responses.
type ChatMessageView struct {
	ChatMessage
	Sender   UserRef `json:"sender"`
	Receiver UserRef `json:"receiver"`
}

// Conversation is one row of the back-office conversation list: the
// counterpart user, the latest message, and how many are unread.
type Conversation struct {
	User        UserRef   `bson:"user" json:"user"`
	LastMessage string    `bson:"lastMessage" json:"lastMessage"`
	LastDate    time.Time `bson:"lastDate" json:"lastDate"`
	UnreadCount int       `bson:"unreadCount" json:"unreadCount"`
}
