package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"umedia/database"
	"umedia/models"
	"umedia/realtime"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChatID derives the chat document id from the two participant ids, sorted
// lexicographically and joined. Both participants resolve to the same id
// without a lookup, and a pair can never produce two chat documents.
func ChatID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

type StartChatRequest struct {
	PartnerID string `json:"partnerId" binding:"required"`
}

// StartChat creates the chat document on first contact and mirrors a
// messaging pointer under both participants. Returns the existing chat id
// when the pair has already talked.
func StartChat(c *gin.Context) {
	var req StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	partnerID, err := primitive.ObjectIDFromHex(req.PartnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}
	if partnerID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chatID := ChatID(userID.Hex(), partnerID.Hex())

	var existing models.Chat
	err = database.Chats.FindOne(ctx, bson.M{"_id": chatID}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"chatId": existing.ID})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	now := time.Now().UnixMilli()
	chat := models.Chat{
		ID:           chatID,
		Participants: []primitive.ObjectID{userID, partnerID},
		LastMessage:  "",
		UpdatedAt:    now,
		CreatedAt:    now,
	}

	if _, err := database.Chats.InsertOne(ctx, chat); err != nil {
		log.Printf("StartChat insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}

	// Mirror the messaging pointer under both participants. Sequential
	// writes, no rollback on partial failure.
	_, err = database.MessagingUsers.InsertOne(ctx, models.MessagingUser{
		UserID:     userID,
		PartnerID:  partnerID,
		ChatID:     chatID,
		MessagedAt: now,
	})
	if err != nil {
		log.Printf("StartChat messaging pointer write error: %v", err)
	}
	_, err = database.MessagingUsers.InsertOne(ctx, models.MessagingUser{
		UserID:     partnerID,
		PartnerID:  userID,
		ChatID:     chatID,
		MessagedAt: now,
	})
	if err != nil {
		log.Printf("StartChat partner pointer mirror write error: %v", err)
	}

	if hub != nil {
		hub.Publish(realtime.UserChannel+partnerID.Hex(), "chat_created", gin.H{
			"chatId":    chatID,
			"partnerId": userID.Hex(),
		})
	}

	c.JSON(http.StatusCreated, gin.H{"chatId": chatID})
}

// GetChats lists the viewer's messaging partners, resolved to profiles,
// newest conversation first.
func GetChats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.MessagingUsers.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
		return
	}
	defer cursor.Close(ctx)

	var pointers []models.MessagingUser
	if err := cursor.All(ctx, &pointers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode chats"})
		return
	}

	partnerIDs := make([]primitive.ObjectID, 0, len(pointers))
	chatByPartner := make(map[primitive.ObjectID]string, len(pointers))
	for _, p := range pointers {
		partnerIDs = append(partnerIDs, p.PartnerID)
		chatByPartner[p.PartnerID] = p.ChatID
	}

	partners, err := fetchUsersByIDs(ctx, partnerIDs)
	if err != nil {
		log.Printf("GetChats resolve error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve partners"})
		return
	}

	// chat metadata for last message and ordering
	chatIDs := make([]string, 0, len(pointers))
	for _, p := range pointers {
		chatIDs = append(chatIDs, p.ChatID)
	}
	chatMeta := make(map[string]models.Chat, len(chatIDs))
	if len(chatIDs) > 0 {
		chatCursor, err := database.Chats.Find(ctx, bson.M{"_id": bson.M{"$in": chatIDs}})
		if err == nil {
			var chats []models.Chat
			if err := chatCursor.All(ctx, &chats); err == nil {
				for _, chat := range chats {
					chatMeta[chat.ID] = chat
				}
			}
		}
	}

	response := make([]gin.H, 0, len(partners))
	for _, partner := range partners {
		chatID := chatByPartner[partner.ID]
		entry := gin.H{
			"chatId": chatID,
			"partner": gin.H{
				"id":       partner.ID.Hex(),
				"username": partner.Username,
				"photoURL": partner.PhotoURL,
			},
		}
		if chat, ok := chatMeta[chatID]; ok {
			entry["lastMessage"] = chat.LastMessage
			entry["updatedAt"] = chat.UpdatedAt
		}
		response = append(response, entry)
	}

	c.JSON(http.StatusOK, response)
}
