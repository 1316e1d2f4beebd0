package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Post carries an author name/avatar snapshot taken at creation time so feed
// rendering needs no user lookup. ForumID is either a forum id or the
// "general" sentinel for ungrouped posts. Timestamps are unix milliseconds.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PostID      string             `bson:"postId" json:"postId"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	UserName    string             `bson:"userName" json:"userName"`
	UserAvatar  string             `bson:"userAvatar" json:"userAvatar"`
	ForumID     string             `bson:"forumId" json:"forumId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	PhotoUrls   []string           `bson:"photoUrls" json:"photoUrls"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   int64              `bson:"updatedAt" json:"updatedAt"`
}

type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CommentID  string             `bson:"commentId" json:"commentId"`
	PostID     string             `bson:"postId" json:"postId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	UserName   string             `bson:"userName" json:"userName"`
	UserAvatar string             `bson:"userAvatar" json:"userAvatar"`
	Comment    string             `bson:"comment" json:"comment"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
}
