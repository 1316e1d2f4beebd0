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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func CreateComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Err(); err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&author); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch author profile"})
		return
	}

	// The id is assigned up front and echoed into the body.
	id := primitive.NewObjectID()
	comment := models.Comment{
		ID:         id,
		CommentID:  id.Hex(),
		PostID:     postID.Hex(),
		UserID:     userID,
		UserName:   author.Username,
		UserAvatar: author.PhotoURL,
		Comment:    req.Comment,
		CreatedAt:  time.Now().UnixMilli(),
	}

	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Printf("CreateComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if hub != nil {
		hub.Publish(realtime.PostChannel+comment.PostID, "comment_added", comment)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Comment created successfully",
		"commentId": comment.CommentID,
	})
}

func GetComments(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := database.Comments.Find(ctx, bson.M{"postId": postID.Hex()}, opts)
	if err != nil {
		log.Printf("GetComments error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		log.Printf("GetComments decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}
