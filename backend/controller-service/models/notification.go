package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	NotificationTypeComment  = "comment"
	NotificationTypeReaction = "reaction"
	NotificationTypeScan     = "qr_scan"
)

// Notification is the durable record of a notification-worthy event. UserID is
// always the recipient (the owner of the resource acted on), never the actor.
// Dismissed notifications stay in the collection but are filtered from reads.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"notification_id"`
	Type      string             `bson:"type" json:"notification_type"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	Timestamp string             `bson:"timestamp" json:"timestamp"`
	Dismissed bool               `bson:"dismissed" json:"-"`

	// comment / reaction fields. Pointers because an ObjectID is a byte array
	// and a zero one would survive omitempty, leaking all-zero ids into the
	// JSON of notification types that never set them.
	PostID        *primitive.ObjectID `bson:"post_id,omitempty" json:"post_id,omitempty"`
	ActorID       *primitive.ObjectID `bson:"actor_id,omitempty" json:"user_id,omitempty"`
	ActorUsername string              `bson:"actor_username,omitempty" json:"username,omitempty"`
	CommentID     *primitive.ObjectID `bson:"comment_id,omitempty" json:"comment_id,omitempty"`
	Content       string              `bson:"content,omitempty" json:"content,omitempty"`
	ReactionType  string              `bson:"reaction_type,omitempty" json:"reaction_type,omitempty"`

	// qr scan fields
	IP        string `bson:"ip,omitempty" json:"-"`
	City      string `bson:"city,omitempty" json:"city,omitempty"`
	Latitude  string `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude string `bson:"longitude,omitempty" json:"longitude,omitempty"`
}
