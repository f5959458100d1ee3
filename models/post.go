package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user" json:"user"`
	Username string             `bson:"username" json:"username"` // owner name at creation time, not kept in sync
	Text     string             `bson:"text" json:"text"`
	ImageURL string             `bson:"image_url,omitempty" json:"image_url"`
	// Likes holds the ids of users who liked the post, in like order.
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// HasLike reports whether userID is in the likes set.
func (p *Post) HasLike(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike removes userID from the likes set if present, otherwise
// appends it.
func (p *Post) ToggleLike(userID primitive.ObjectID) {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return
		}
	}
	p.Likes = append(p.Likes, userID)
}
