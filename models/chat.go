package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Chat is keyed by the two participant ids sorted and joined, so both
// participants derive the same document id without a lookup.
type Chat struct {
	ID           string               `bson:"_id" json:"chatId"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	LastMessage  string               `bson:"lastMessage" json:"lastMessage"`
	UpdatedAt    int64                `bson:"updatedAt" json:"updatedAt"`
	CreatedAt    int64                `bson:"createdAt" json:"createdAt"`
}

type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID    string             `bson:"chatId" json:"chatId"`
	SenderID  primitive.ObjectID `bson:"senderId" json:"senderId"`
	Text      string             `bson:"text" json:"text"`
	Seen      bool               `bson:"seen" json:"seen"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

// MessagingUser is the per-user pointer written under both participants when
// a chat is first created.
type MessagingUser struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	PartnerID  primitive.ObjectID `bson:"partnerId" json:"partnerId"`
	ChatID     string             `bson:"chatId" json:"chatId"`
	MessagedAt int64              `bson:"messagedAt" json:"messagedAt"`
}
