package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Forum struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ForumID     string             `bson:"forumId" json:"forumId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	ForumImage  string             `bson:"forumImage" json:"forumImage"`
	CoverImage  string             `bson:"coverImage" json:"coverImage"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
}
