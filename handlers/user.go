package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"umedia/database"
	"umedia/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Username      string `json:"username"`
	Bio           string `json:"bio"`
	PhotoURL      string `json:"photoURL"`
	PhotoKey      string `json:"photoKey"`
	CoverImage    string `json:"coverImage"`
	CoverImageKey string `json:"coverImageKey"`
}

// UpdateMyProfile merge-writes the provided fields. When a new avatar or
// cover key replaces an old one, the previous object is deleted from the
// store by key; a deletion failure is logged and does not block the update.
func UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var current models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&current); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	set := bson.M{}
	if req.Username != "" {
		set["username"] = req.Username
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.PhotoURL != "" {
		set["photoURL"] = req.PhotoURL
		set["photoKey"] = req.PhotoKey
		if current.PhotoKey != "" {
			if err := deleteObject(ctx, current.PhotoKey); err != nil {
				log.Printf("UpdateMyProfile old avatar delete error: %v", err)
			}
		}
	}
	if req.CoverImage != "" {
		set["coverImage"] = req.CoverImage
		set["coverImageKey"] = req.CoverImageKey
		if current.CoverImageKey != "" {
			if err := deleteObject(ctx, current.CoverImageKey); err != nil {
				log.Printf("UpdateMyProfile old cover delete error: %v", err)
			}
		}
	}

	if len(set) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// SearchUsers does a prefix match on username.
func SearchUsers(c *gin.Context) {
	search := c.Query("search")
	if search == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"username": bson.M{"$regex": "^" + search, "$options": "i"}}
	cursor, err := database.Users.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// fetchUsersByIDs resolves an id list to profiles with chunked $in queries,
// the same predicate ceiling the feed uses.
func fetchUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	for _, chunk := range chunkIDs(ids, inQueryLimit) {
		cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}

		var page []models.User
		err = cursor.All(ctx, &page)
		if err != nil {
			return nil, err
		}
		users = append(users, page...)
	}
	return users, nil
}

func GetFollowing(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Following.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following"})
		return
	}
	defer cursor.Close(ctx)

	var relations []models.FollowRelation
	if err := cursor.All(ctx, &relations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode following"})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(relations))
	for _, rel := range relations {
		ids = append(ids, rel.TargetID)
	}

	users, err := fetchUsersByIDs(ctx, ids)
	if err != nil {
		log.Printf("GetFollowing resolve error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve profiles"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func GetFollowers(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Followers.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followers"})
		return
	}
	defer cursor.Close(ctx)

	var relations []models.FollowerRelation
	if err := cursor.All(ctx, &relations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode followers"})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(relations))
	for _, rel := range relations {
		ids = append(ids, rel.FollowerID)
	}

	users, err := fetchUsersByIDs(ctx, ids)
	if err != nil {
		log.Printf("GetFollowers resolve error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve profiles"})
		return
	}

	c.JSON(http.StatusOK, users)
}
