package routes

import (
	"net/http"
	"time"

	"umedia/handlers"
	"umedia/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimitMiddleware())

	// Public routes (no auth required)
	router.POST("/api/signup", handlers.Signup)
	router.POST("/api/login", handlers.Login)
	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile
	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)
	protected.GET("/users", handlers.SearchUsers)
	protected.GET("/users/:id", handlers.GetUser)

	// Follows
	protected.POST("/users/:id/follow", handlers.FollowUser)
	protected.DELETE("/users/:id/follow", handlers.UnfollowUser)
	protected.GET("/users/:id/following", handlers.GetFollowing)
	protected.GET("/users/:id/followers", handlers.GetFollowers)

	// Forums
	protected.POST("/forums", handlers.CreateForum)
	protected.GET("/forums", handlers.SearchForums)
	protected.GET("/forums/:id", handlers.GetForum)
	protected.PUT("/forums/:id", handlers.UpdateForum)
	protected.POST("/forums/:id/follow", handlers.FollowForum)
	protected.DELETE("/forums/:id/follow", handlers.UnfollowForum)
	protected.GET("/me/forums", handlers.GetFollowedForums)

	// Posts
	protected.POST("/posts", handlers.CreatePost)
	protected.GET("/posts/:id", handlers.GetPost)
	protected.PUT("/posts/:id", handlers.UpdatePost)
	protected.DELETE("/posts/:id", handlers.DeletePost)
	protected.GET("/users/:id/posts", handlers.GetUserPosts)
	protected.GET("/feed", handlers.GetFeed)

	// Comments
	protected.POST("/posts/:id/comments", handlers.CreateComment)
	protected.GET("/posts/:id/comments", handlers.GetComments)

	// Reactions
	protected.POST("/posts/:id/like", handlers.LikePost)
	protected.DELETE("/posts/:id/like", handlers.UnlikePost)
	protected.POST("/posts/:id/dislike", handlers.DislikePost)
	protected.DELETE("/posts/:id/dislike", handlers.UndislikePost)
	protected.GET("/posts/:id/likes", handlers.GetPostLikes)

	// Chats and messages
	protected.POST("/chats", handlers.StartChat)
	protected.GET("/chats", handlers.GetChats)
	protected.POST("/chats/:id/messages", handlers.SendMessage)
	protected.GET("/chats/:id/messages", handlers.GetMessages)
	protected.POST("/chats/:id/read", handlers.MarkAsRead)

	// Uploads
	protected.GET("/upload-url", handlers.GetUploadURL)
	protected.DELETE("/delete-file", handlers.DeleteFile)

	// Push
	protected.POST("/subscribe", handlers.SubscribePush)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
