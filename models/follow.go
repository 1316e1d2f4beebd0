package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FollowRelation lives in the actor's following list; FollowerRelation is its
// mirror in the target's followers list. Both exist or both are absent,
// best-effort only (the two writes are independent).
type FollowRelation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	TargetID   primitive.ObjectID `bson:"targetId" json:"targetId"`
	FollowedAt int64              `bson:"followedAt" json:"followedAt"`
}

type FollowerRelation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	FollowerID primitive.ObjectID `bson:"followerId" json:"followerId"`
	FollowedAt int64              `bson:"followedAt" json:"followedAt"`
}

// ForumFollow has no reverse mirror. The forum name is denormalized for
// display when composing a post.
type ForumFollow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ForumID    string             `bson:"forumId" json:"forumId"`
	Name       string             `bson:"name" json:"name"`
	FollowedAt int64              `bson:"followedAt" json:"followedAt"`
}
