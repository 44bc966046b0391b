package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type ReactionsCount struct {
	Likes  int `bson:"likes" json:"likes"`
	Hearts int `bson:"hearts" json:"hearts"`
}

type Reaction struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type   string             `bson:"type" json:"type"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"comment_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Username  string             `bson:"username" json:"username"`
	Content   string             `bson:"content" json:"content"`
	Timestamp string             `bson:"timestamp" json:"timestamp"`
}

type Post struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"_user_id" json:"user_id"`
	Description    string             `bson:"description" json:"description"`
	ImagesURLs     []string           `bson:"images_urls" json:"images_urls"`
	Comments       []Comment          `bson:"comments" json:"comments"`
	Reactions      []Reaction         `bson:"reactions" json:"-"`
	ReactionsCount ReactionsCount     `bson:"reactions_count" json:"reactions_count"`
	Location       string             `bson:"location" json:"location"`
	Timestamp      string             `bson:"timestamp" json:"timestamp"`
}
