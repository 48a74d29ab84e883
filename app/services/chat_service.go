package services

import (
	"context"
	"errors"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/event"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"github.com/lekhanhduy0411/tiemlen/pkg/ws"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const historyLimit = 100

// SendMessageInput is one direct message.
type SendMessageInput struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Message    string `json:"message" validate:"required,max=2000"`
}

// ChatService persists direct messages and pushes them to the receiver's
// live connections.
type ChatService struct {
	messages *repositories.ChatRepository
	users    *repositories.UserRepository
	hub      *ws.Hub
}

func NewChatService(messages *repositories.ChatRepository, users *repositories.UserRepository, hub *ws.Hub) *ChatService {
	return &ChatService{messages: messages, users: users, hub: hub}
}

// Send stores the message and emits it to the receiver's room. Delivery is
// best-effort; the receiver reloads history over REST on next open.
func (s *ChatService) Send(ctx context.Context, senderID primitive.ObjectID, in SendMessageInput) (models.ChatMessage, error) {
	receiverID, err := primitive.ObjectIDFromHex(in.ReceiverID)
	if err != nil {
		return models.ChatMessage{}, badRequest("Người nhận không hợp lệ")
	}
	if receiverID == senderID {
		return models.ChatMessage{}, badRequest("Không thể gửi tin nhắn cho chính mình")
	}
	if _, err := s.users.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ChatMessage{}, notFound("Không tìm thấy người dùng")
		}
		return models.ChatMessage{}, err
	}

	msg := models.ChatMessage{
		Sender:   senderID,
		Receiver: receiverID,
		Message:  in.Message,
	}
	if err := s.messages.Insert(ctx, &msg); err != nil {
		return models.ChatMessage{}, err
	}

	if s.hub != nil {
		s.hub.EmitToUser(receiverID.Hex(), "newMessage", msg)
	}
	event.Fire("chat.message", msg)
	return msg, nil
}

// History returns the conversation with the counterpart, oldest-first, and
// marks the counterpart's messages as read.
func (s *ChatService) History(ctx context.Context, viewerID, counterpartID primitive.ObjectID) ([]models.ChatMessage, error) {
	msgs, err := s.messages.History(ctx, viewerID, counterpartID, historyLimit)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkRead(ctx, viewerID, counterpartID); err != nil {
		logger.Warn("chat: mark read failed", "viewer", viewerID.Hex(), "error", err)
	}
	return msgs, nil
}

// Conversations returns the viewer's conversation list for the back-office
// inbox.
func (s *ChatService) Conversations(ctx context.Context, viewerID primitive.ObjectID) ([]models.Conversation, error) {
	return s.messages.Conversations(ctx, viewerID)
}

// NotifyTyping relays a typing indicator to the counterpart without
// persisting anything.
func (s *ChatService) NotifyTyping(senderID, receiverID string) {
	if s.hub != nil {
		s.hub.EmitToUser(receiverID, "userTyping", map[string]string{"userId": senderID})
	}
}
