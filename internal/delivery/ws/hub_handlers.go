package ws

// HandleJoin binds the connection to a username and registers the client.
// If the username is already online elsewhere, the previous session is
// evicted: the registry drops its binding and its socket is closed.
func (h *Hub) HandleJoin(c *Client, username string) {
	if c.User() != nil {
		c.SendError("Already joined")
		return
	}

	username = SanitizeUsername(username)
	if !IsValidUsername(username) {
		c.SendError("Invalid username")
		return
	}

	var evicted *Client
	if old := h.service.LookupByUsername(username); old != nil {
		evicted = h.clientByUserID(old.ID)
	}

	user := h.service.Join(c.ConnID, username)
	c.setUser(user)

	// Last login wins: drop the replaced session's socket after the new
	// binding is in place.
	if evicted != nil && evicted != c {
		evicted.Close()
	}

	h.Register(c)
}

// HandleStartChat opens (or resumes) a conversation with the target user and
// sends both parties the thread info plus its recent messages.
func (h *Hub) HandleStartChat(c *Client, targetUsername string) {
	me := c.User()
	if me == nil {
		c.SendError("You are not connected")
		return
	}

	target := h.service.LookupByUsername(targetUsername)
	if target == nil {
		c.SendError("Target user not found or offline")
		return
	}

	if target.ID == me.ID {
		c.SendError("Cannot start chat with yourself")
		return
	}

	conversation, err := h.service.GetOrCreateConversation(me.ID, target.ID)
	if err != nil {
		c.SendError("Failed to start chat: " + err.Error())
		return
	}

	messages := h.service.GetMessages(conversation.ID, 0)

	c.Send(encodeEvent(EventChatStarted, ChatStartedPayload{
		ConversationID: conversation.ID,
		OtherUserID:    target.ID,
		OtherUsername:  target.Username,
		Messages:       messages,
	}))

	h.sendToUser(target.ID, encodeEvent(EventChatStarted, ChatStartedPayload{
		ConversationID: conversation.ID,
		OtherUserID:    me.ID,
		OtherUsername:  me.Username,
		Messages:       messages,
	}))
}

// HandleSendMessage appends a message to the conversation, echoes it to the
// sender and pushes it to the receiver when online.
func (h *Hub) HandleSendMessage(c *Client, conversationID, body string) {
	me := c.User()
	if me == nil {
		c.SendError("You are not connected")
		return
	}

	body = SanitizeBody(body)
	if body == "" {
		c.SendError("Empty message")
		return
	}

	conversation := h.service.GetConversation(conversationID)
	if conversation == nil || !conversation.ContainsUser(me.ID) {
		c.SendError("Conversation not found or access denied")
		return
	}

	receiverID := conversation.OtherUserID(me.ID)
	message, err := h.service.AppendMessage(conversationID, me.ID, receiverID, body)
	if err != nil {
		// chat.ErrConversationNotFound cannot race here since conversations
		// are never deleted, but translate it anyway.
		c.SendError("Failed to send message: " + err.Error())
		return
	}

	payload := MessagePayload{ConversationID: conversationID, Message: message}
	c.Send(encodeEvent(EventMessageSent, payload))
	if message.Delivered {
		h.sendToUser(receiverID, encodeEvent(EventMessageReceived, payload))
	}
}

// HandleMarkRead marks every message addressed to the caller in the
// conversation as read. Unknown conversations are a silent no-op in the
// service; the caller still gets the confirmation, matching mark_read's
// idempotent contract.
func (h *Hub) HandleMarkRead(c *Client, conversationID string) {
	me := c.User()
	if me == nil {
		c.SendError("You are not connected")
		return
	}

	h.service.MarkRead(conversationID, me.ID)
	c.Send(encodeEvent(EventMessagesRead, MessagesReadPayload{
		ConversationID: conversationID,
		ReaderID:       me.ID,
	}))
}

// HandleListOnline sends the caller the online users excluding themselves.
func (h *Hub) HandleListOnline(c *Client) {
	me := c.User()
	if me == nil {
		c.SendError("You are not connected")
		return
	}

	users := h.service.ListOnline()
	payload := OnlineUsersPayload{}
	for _, u := range users {
		if u.ID == me.ID {
			continue
		}
		payload.Users = append(payload.Users, u.Snapshot())
	}
	c.Send(encodeEvent(EventOnlineUsers, payload))
}
