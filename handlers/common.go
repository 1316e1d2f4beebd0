package handlers

import (
	"net/http"

	"umedia/realtime"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared across all handler files.
const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

var hub *realtime.Hub
var vapidPrivateKey string
var vapidPublicKey string

type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

func SetHub(h *realtime.Hub) {
	hub = h
}

func SetVAPIDKeys(publicKey, privateKey string) {
	vapidPublicKey = publicKey
	vapidPrivateKey = privateKey
}

// currentUserID reads the authenticated user id set by the JWT middleware.
// Writes the 401 response itself when the id is absent or malformed.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
