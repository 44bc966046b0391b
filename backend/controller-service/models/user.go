package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username          string               `bson:"username" json:"username"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	HashedPassword    []byte               `bson:"hashed_password" json:"-"`
	ProfilePictureURL string               `bson:"profile_picture_url" json:"profile_picture_url"`
	Description       string               `bson:"description" json:"description"`
	Posts             []primitive.ObjectID `bson:"posts" json:"-"`
	Notifications     []primitive.ObjectID `bson:"notifications" json:"-"`
}
