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

// Like and dislike records are written in mirrored pairs: one under the
// user, one under the post. The two writes are sequential and independent;
// a failure of the second leaves a half-applied pair that is only logged.

func LikePost(c *gin.Context) {
	setReaction(c, database.UserLikes, database.PostLikes, "like")
}

func UnlikePost(c *gin.Context) {
	clearReaction(c, database.UserLikes, database.PostLikes, "like")
}

func DislikePost(c *gin.Context) {
	setReaction(c, database.UserDislikes, database.PostDislikes, "dislike")
}

func UndislikePost(c *gin.Context) {
	clearReaction(c, database.UserDislikes, database.PostDislikes, "dislike")
}

func setReaction(c *gin.Context, userSide, postSide *mongo.Collection, kind string) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postIDHex := postID.Hex()

	count, err := userSide.CountDocuments(ctx, bson.M{"userId": userID, "postId": postIDHex})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Already " + kind + "d"})
		return
	}

	now := time.Now().UnixMilli()

	_, err = userSide.InsertOne(ctx, models.UserLike{
		UserID:    userID,
		PostID:    postIDHex,
		CreatedAt: now,
	})
	if err != nil {
		log.Printf("%s user-side write error: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + kind + " post"})
		return
	}

	_, err = postSide.InsertOne(ctx, models.PostLike{
		PostID:    postIDHex,
		UserID:    userID,
		CreatedAt: now,
	})
	if err != nil {
		// mirror is now half-applied; no rollback
		log.Printf("%s post-side mirror write error: %v", kind, err)
	}

	if hub != nil {
		hub.Publish(realtime.PostChannel+postIDHex, kind+"_updated", gin.H{
			"postId": postIDHex,
			"userId": userID.Hex(),
			"active": true,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post " + kind + "d"})
}

func clearReaction(c *gin.Context, userSide, postSide *mongo.Collection, kind string) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postIDHex := postID.Hex()

	result, err := userSide.DeleteOne(ctx, bson.M{"userId": userID, "postId": postIDHex})
	if err != nil {
		log.Printf("un%s user-side delete error: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove " + kind})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not " + kind + "d"})
		return
	}

	if _, err := postSide.DeleteOne(ctx, bson.M{"postId": postIDHex, "userId": userID}); err != nil {
		log.Printf("un%s post-side mirror delete error: %v", kind, err)
	}

	if hub != nil {
		hub.Publish(realtime.PostChannel+postIDHex, kind+"_updated", gin.H{
			"postId": postIDHex,
			"userId": userID.Hex(),
			"active": false,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": kind + " removed"})
}

// GetPostLikes returns the ids of users who liked the post. The client uses
// the list to derive "liked by me" state.
func GetPostLikes(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.PostLikes.Find(ctx, bson.M{"postId": postID.Hex()})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes"})
		return
	}
	defer cursor.Close(ctx)

	var likes []models.PostLike
	if err := cursor.All(ctx, &likes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode likes"})
		return
	}

	userIDs := make([]string, 0, len(likes))
	for _, like := range likes {
		userIDs = append(userIDs, like.UserID.Hex())
	}

	c.JSON(http.StatusOK, gin.H{"postId": postID.Hex(), "userIds": userIDs, "count": len(userIDs)})
}
