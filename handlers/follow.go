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

// FollowUser writes the relation to two locations: the actor's following
// list and the target's followers list. The writes are sequential and
// independent; there is no rollback if the second fails.
func FollowUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if userID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Following.CountDocuments(ctx, bson.M{"userId": userID, "targetId": targetID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following"})
		return
	}

	now := time.Now().UnixMilli()

	_, err = database.Following.InsertOne(ctx, models.FollowRelation{
		UserID:     userID,
		TargetID:   targetID,
		FollowedAt: now,
	})
	if err != nil {
		log.Printf("FollowUser following write error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	_, err = database.Followers.InsertOne(ctx, models.FollowerRelation{
		UserID:     targetID,
		FollowerID: userID,
		FollowedAt: now,
	})
	if err != nil {
		// mirror is now half-applied; no rollback
		log.Printf("FollowUser followers mirror write error: %v", err)
	}

	if hub != nil {
		hub.Publish(realtime.UserChannel+targetID.Hex(), "follow_updated", gin.H{
			"followerId": userID.Hex(),
			"active":     true,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Now following user"})
}

func UnfollowUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Following.DeleteOne(ctx, bson.M{"userId": userID, "targetId": targetID})
	if err != nil {
		log.Printf("UnfollowUser following delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following"})
		return
	}

	if _, err := database.Followers.DeleteOne(ctx, bson.M{"userId": targetID, "followerId": userID}); err != nil {
		log.Printf("UnfollowUser followers mirror delete error: %v", err)
	}

	if hub != nil {
		hub.Publish(realtime.UserChannel+targetID.Hex(), "follow_updated", gin.H{
			"followerId": userID.Hex(),
			"active":     false,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed user"})
}

// FollowForum writes a single relation carrying the denormalized forum name.
// There is no reverse mirror for forums.
func FollowForum(c *gin.Context) {
	forumID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid forum ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var forum models.Forum
	err = database.Forums.FindOne(ctx, bson.M{"_id": forumID}).Decode(&forum)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Forum not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	forumIDHex := forumID.Hex()

	count, err := database.ForumFollows.CountDocuments(ctx, bson.M{"userId": userID, "forumId": forumIDHex})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following forum"})
		return
	}

	_, err = database.ForumFollows.InsertOne(ctx, models.ForumFollow{
		UserID:     userID,
		ForumID:    forumIDHex,
		Name:       forum.Name,
		FollowedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("FollowForum write error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow forum"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Now following forum"})
}

func UnfollowForum(c *gin.Context) {
	forumID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid forum ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.ForumFollows.DeleteOne(ctx, bson.M{"userId": userID, "forumId": forumID.Hex()})
	if err != nil {
		log.Printf("UnfollowForum delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow forum"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following forum"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed forum"})
}

// GetFollowedForums lists the viewer's followed forums (id + denormalized
// name), used when composing a post.
func GetFollowedForums(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.ForumFollows.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followed forums"})
		return
	}
	defer cursor.Close(ctx)

	follows := []models.ForumFollow{}
	if err := cursor.All(ctx, &follows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode followed forums"})
		return
	}

	c.JSON(http.StatusOK, follows)
}
