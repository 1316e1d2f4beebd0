package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"umedia/database"
	"umedia/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateForumRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Description string `json:"description"`
	ForumImage  string `json:"forumImage"`
	CoverImage  string `json:"coverImage"`
}

func CreateForum(c *gin.Context) {
	var req CreateForumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// "general" is the sentinel for ungrouped posts, never a document.
	if strings.EqualFold(req.Name, GeneralForum) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Forum name is reserved"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Forums.CountDocuments(ctx, bson.M{"name": req.Name})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Forum name already taken"})
		return
	}

	id := primitive.NewObjectID()
	forum := models.Forum{
		ID:          id,
		ForumID:     id.Hex(),
		Name:        req.Name,
		Description: req.Description,
		ForumImage:  req.ForumImage,
		CoverImage:  req.CoverImage,
		CreatedBy:   userID,
		CreatedAt:   time.Now().UnixMilli(),
	}

	if _, err := database.Forums.InsertOne(ctx, forum); err != nil {
		log.Printf("CreateForum error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create forum"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Forum created successfully",
		"forumId": forum.ForumID,
	})
}

func GetForum(c *gin.Context) {
	forumID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid forum ID"})
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch forum"})
		return
	}

	c.JSON(http.StatusOK, forum)
}

type UpdateForumRequest struct {
	Description string `json:"description"`
	ForumImage  string `json:"forumImage"`
	CoverImage  string `json:"coverImage"`
}

// UpdateForum merge-writes description and images. Replaced image objects
// are deleted from the store by key first, failures logged only.
func UpdateForum(c *gin.Context) {
	forumID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid forum ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateForumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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
	if forum.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can edit this forum"})
		return
	}

	set := bson.M{}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.ForumImage != "" {
		set["forumImage"] = req.ForumImage
		if forum.ForumImage != "" {
			if err := deleteObjectByURL(ctx, forum.ForumImage); err != nil {
				log.Printf("UpdateForum old image delete error: %v", err)
			}
		}
	}
	if req.CoverImage != "" {
		set["coverImage"] = req.CoverImage
		if forum.CoverImage != "" {
			if err := deleteObjectByURL(ctx, forum.CoverImage); err != nil {
				log.Printf("UpdateForum old cover delete error: %v", err)
			}
		}
	}

	if len(set) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}

	if _, err := database.Forums.UpdateOne(ctx, bson.M{"_id": forumID}, bson.M{"$set": set}); err != nil {
		log.Printf("UpdateForum error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update forum"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Forum updated successfully"})
}

// SearchForums matches forum names by prefix; without a search term it
// lists all forums.
func SearchForums(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if search := c.Query("search"); search != "" {
		filter["name"] = bson.M{"$regex": "^" + search, "$options": "i"}
	}

	cursor, err := database.Forums.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch forums"})
		return
	}
	defer cursor.Close(ctx)

	forums := []models.Forum{}
	if err := cursor.All(ctx, &forums); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode forums"})
		return
	}

	c.JSON(http.StatusOK, forums)
}
