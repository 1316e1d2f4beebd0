package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Likes are existence records written in mirrored pairs: one under the user,
// one under the post. The pair carries no payload beyond a timestamp.
type UserLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PostID    string             `bson:"postId" json:"postId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

type PostLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PostID    string             `bson:"postId" json:"postId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
