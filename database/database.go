package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

// Top-level collections. Subcollections of the original document model map
// to flat collections keyed by their parent id.
var (
	Users    *mongo.Collection
	Forums   *mongo.Collection
	Posts    *mongo.Collection
	Comments *mongo.Collection
	Chats    *mongo.Collection
	Messages *mongo.Collection

	// mirrored existence records
	UserLikes    *mongo.Collection
	PostLikes    *mongo.Collection
	UserDislikes *mongo.Collection
	PostDislikes *mongo.Collection
	Following    *mongo.Collection
	Followers    *mongo.Collection

	ForumFollows   *mongo.Collection
	MessagingUsers *mongo.Collection
	PushSubs       *mongo.Collection
)

func ConnectMongo() error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Println("MONGODB_URI not set, using default localhost")
		uri = "mongodb://127.0.0.1:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database("umedia")
	Users = db.Collection("users")
	Forums = db.Collection("forums")
	Posts = db.Collection("posts")
	Comments = db.Collection("comments")
	Chats = db.Collection("chats")
	Messages = db.Collection("messages")
	UserLikes = db.Collection("user_likes")
	PostLikes = db.Collection("post_likes")
	UserDislikes = db.Collection("user_dislikes")
	PostDislikes = db.Collection("post_dislikes")
	Following = db.Collection("following")
	Followers = db.Collection("followers")
	ForumFollows = db.Collection("forum_follows")
	MessagingUsers = db.Collection("messaging_users")
	PushSubs = db.Collection("push_subscriptions")

	log.Println("Connected to MongoDB successfully")
	return nil
}

func DisconnectMongo() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
