package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// ChatController handles the REST side of chat: sending, history and the
// back-office inbox. Realtime delivery rides the WebSocket hub.
type ChatController struct {
	service *services.ChatService
}

func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{service: service}
}

func (ch *ChatController) Send(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in services.SendMessageInput
	if !c.BindJSON(&in) {
		return
	}

	msg, err := ch.service.Send(c.Context(), userID, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// History returns the conversation with {userId} and marks it read.
func (ch *ChatController) History(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	counterpartID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	msgs, err := ch.service.History(c.Context(), userID, counterpartID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Conversations serves the back-office inbox list.
func (ch *ChatController) Conversations(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	convs, err := ch.service.Conversations(c.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}
