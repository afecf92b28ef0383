package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is a single blog post written by a client.
// Collection: blogs (configurable)
type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Author    string             `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BlogPatch holds the fields of a partial update. Nil fields are left untouched.
type BlogPatch struct {
	Title  *string
	Body   *string
	Author *string
}

// IsEmpty reports whether the patch sets no field at all.
func (p BlogPatch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil && p.Author == nil
}
