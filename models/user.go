package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	Username      string             `bson:"username" json:"username"`
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	PhotoURL      string             `bson:"photoURL" json:"photoURL"`
	PhotoKey      string             `bson:"photoKey,omitempty" json:"photoKey,omitempty"`
	CoverImage    string             `bson:"coverImage" json:"coverImage"`
	CoverImageKey string             `bson:"coverImageKey,omitempty" json:"coverImageKey,omitempty"`
	Bio           string             `bson:"bio" json:"bio"`
	CreatedAt     int64              `bson:"createdAt" json:"createdAt"`
}
