package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"umedia/database"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetVapidPublicKey(c *gin.Context) {
	if vapidPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notifications not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": vapidPublicKey})
}

// SubscribePush stores the browser's push subscription, replacing any
// previous subscription for the same endpoint.
func SubscribePush(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var sub webpush.Subscription
	if err := c.ShouldBindJSON(&sub); err != nil || sub.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "sub.endpoint": sub.Endpoint}
	update := bson.M{"$set": PushSubscription{UserID: userID, Sub: sub}}
	opts := options.Update().SetUpsert(true)
	if _, err := database.PushSubs.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Printf("SubscribePush error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed"})
}
