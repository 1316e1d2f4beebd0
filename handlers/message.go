package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"umedia/database"
	"umedia/models"
	"umedia/realtime"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendMessage appends a message to the chat and bumps the chat's
// lastMessage/updatedAt metadata. The metadata write is best-effort.
func SendMessage(c *gin.Context) {
	chatID := c.Param("id")

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chat, ok := requireChatMember(c, ctx, chatID, userID)
	if !ok {
		return
	}

	now := time.Now().UnixMilli()
	message := models.Message{
		ID:        primitive.NewObjectID(),
		ChatID:    chatID,
		SenderID:  userID,
		Text:      req.Text,
		Seen:      false,
		CreatedAt: now,
	}

	if _, err := database.Messages.InsertOne(ctx, message); err != nil {
		log.Printf("SendMessage insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// metadata bump is not critical
	_, err := database.Chats.UpdateOne(ctx, bson.M{"_id": chatID}, bson.M{
		"$set": bson.M{"lastMessage": req.Text, "updatedAt": now},
	})
	if err != nil {
		log.Printf("SendMessage chat metadata update error: %v", err)
	}

	if hub != nil {
		hub.Publish(realtime.ChatChannel+chatID, "new_message", message)
	}

	for _, participant := range chat.Participants {
		if participant != userID {
			go notifyNewMessage(participant, chatID, req.Text)
		}
	}

	c.JSON(http.StatusCreated, message)
}

// GetMessages returns the chat's messages oldest first. Only participants
// may read a chat.
func GetMessages(c *gin.Context) {
	chatID := c.Param("id")

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, ok := requireChatMember(c, ctx, chatID, userID); !ok {
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := database.Messages.Find(ctx, bson.M{"chatId": chatID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkAsRead flags the partner's unseen messages in the chat as seen.
func MarkAsRead(c *gin.Context) {
	chatID := c.Param("id")

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, ok := requireChatMember(c, ctx, chatID, userID); !ok {
		return
	}

	result, err := database.Messages.UpdateMany(ctx,
		bson.M{"chatId": chatID, "senderId": bson.M{"$ne": userID}, "seen": false},
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		log.Printf("MarkAsRead error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	if hub != nil && result.ModifiedCount > 0 {
		hub.Publish(realtime.ChatChannel+chatID, "message_read", gin.H{
			"chatId":   chatID,
			"readerId": userID.Hex(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"updated": result.ModifiedCount})
}

// requireChatMember loads the chat and checks the caller is a participant.
// Writes the error response itself on failure.
func requireChatMember(c *gin.Context, ctx context.Context, chatID string, userID primitive.ObjectID) (models.Chat, bool) {
	var chat models.Chat
	err := database.Chats.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		return chat, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return chat, false
	}

	for _, participant := range chat.Participants {
		if participant == userID {
			return chat, true
		}
	}

	c.JSON(http.StatusForbidden, gin.H{"error": "Not a chat participant"})
	return chat, false
}

// notifyNewMessage pushes a notification to every subscription the recipient
// has registered. Runs in its own goroutine; failures are logged only.
func notifyNewMessage(recipientID primitive.ObjectID, chatID, text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("push notify panic: %v", r)
		}
	}()

	if vapidPrivateKey == "" || vapidPublicKey == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.PushSubs.Find(ctx, bson.M{"userId": recipientID})
	if err != nil {
		log.Printf("push subscription lookup error: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var subs []PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		log.Printf("push subscription decode error: %v", err)
		return
	}

	payload, err := json.Marshal(gin.H{
		"title":  "New message",
		"body":   text,
		"chatId": chatID,
	})
	if err != nil {
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      "mailto:admin@umedia.app",
			VAPIDPublicKey:  vapidPublicKey,
			VAPIDPrivateKey: vapidPrivateKey,
			TTL:             60,
		})
		if err != nil {
			log.Printf("push send error: %v", err)
			continue
		}
		resp.Body.Close()
	}
}
