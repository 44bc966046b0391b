package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Mazart23/pet-book/backend/controller-service/clients"
	"github.com/Mazart23/pet-book/backend/controller-service/models"
)

var reactionCounterFields = map[string]string{
	"likes":  "reactions_count.likes",
	"hearts": "reactions_count.hearts",
}

type ReactionService struct {
	PostCollection      *mongo.Collection
	NotificationService *NotificationService
	Notifier            *clients.NotifierClient
	Logger              *logrus.Logger
}

func NewReactionService(postCollection *mongo.Collection, notificationService *NotificationService, notifier *clients.NotifierClient, logger *logrus.Logger) *ReactionService {
	return &ReactionService{
		PostCollection:      postCollection,
		NotificationService: notificationService,
		Notifier:            notifier,
		Logger:              logger,
	}
}

// SetReaction sets the user's reaction on a post, one reaction per user per
// post. Changing the kind moves the counters; repeating the same kind is a
// no-op. The post owner gets a persisted notification plus a best-effort emit.
func (s *ReactionService) SetReaction(postID, userID, username, reactionType string) error {
	counterField, ok := reactionCounterFields[reactionType]
	if !ok {
		return fmt.Errorf("unknown reaction type %q", reactionType)
	}

	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post id: %v", err)
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v", err)
	}

	var post models.Post
	if err := s.PostCollection.FindOne(context.Background(), bson.M{"_id": postOID}).Decode(&post); err != nil {
		return fmt.Errorf("post not found")
	}

	var existing *models.Reaction
	for i := range post.Reactions {
		if post.Reactions[i].UserID == userOID {
			existing = &post.Reactions[i]
			break
		}
	}

	switch {
	case existing == nil:
		_, err = s.PostCollection.UpdateOne(
			context.Background(),
			bson.M{"_id": postOID},
			bson.M{
				"$push": bson.M{"reactions": models.Reaction{UserID: userOID, Type: reactionType}},
				"$inc":  bson.M{counterField: 1},
			},
		)
	case existing.Type == reactionType:
		return nil
	default:
		oldCounterField := reactionCounterFields[existing.Type]
		_, err = s.PostCollection.UpdateOne(
			context.Background(),
			bson.M{"_id": postOID, "reactions.user_id": userOID},
			bson.M{
				"$set": bson.M{"reactions.$.type": reactionType},
				"$inc": bson.M{oldCounterField: -1, counterField: 1},
			},
		)
	}
	if err != nil {
		s.Logger.Errorf("Error setting reaction on post %s: %v", postID, err)
		return fmt.Errorf("failed to set reaction")
	}

	// Reacting to your own post creates no notification.
	if post.UserID != userOID {
		s.notifyOwner(post, userOID, username, reactionType)
	}
	return nil
}

func (s *ReactionService) notifyOwner(post models.Post, actorID primitive.ObjectID, username, reactionType string) {
	timestamp := time.Now().UTC().Format(time.RFC3339)

	notificationID, err := s.NotificationService.Insert(&models.Notification{
		Type:          models.NotificationTypeReaction,
		UserID:        post.UserID,
		PostID:        &post.ID,
		ActorID:       &actorID,
		ActorUsername: username,
		ReactionType:  reactionType,
		Timestamp:     timestamp,
	})
	if err != nil {
		s.Logger.Errorf("Failed to persist reaction notification for post %s: %v", post.ID.Hex(), err)
		return
	}

	payload := clients.EmitPayload{
		UserOwnerID:    post.UserID.Hex(),
		NotificationID: notificationID.Hex(),
		Data: map[string]interface{}{
			"post_id":       post.ID.Hex(),
			"user_id":       actorID.Hex(),
			"username":      username,
			"reaction_type": reactionType,
		},
		Timestamp: timestamp,
	}
	if err := s.Notifier.EmitReaction(payload); err != nil {
		s.Logger.Warnf("Best-effort emit failed for reaction on post %s: %v", post.ID.Hex(), err)
	}
}

// RemoveReaction deletes the user's reaction and rolls the counter back.
func (s *ReactionService) RemoveReaction(postID, userID string) error {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post id: %v", err)
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v", err)
	}

	var post models.Post
	if err := s.PostCollection.FindOne(context.Background(), bson.M{"_id": postOID}).Decode(&post); err != nil {
		return fmt.Errorf("post not found")
	}

	var existing *models.Reaction
	for i := range post.Reactions {
		if post.Reactions[i].UserID == userOID {
			existing = &post.Reactions[i]
			break
		}
	}
	if existing == nil {
		return fmt.Errorf("reaction not found")
	}

	_, err = s.PostCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": postOID},
		bson.M{
			"$pull": bson.M{"reactions": bson.M{"user_id": userOID}},
			"$inc":  bson.M{reactionCounterFields[existing.Type]: -1},
		},
	)
	if err != nil {
		s.Logger.Errorf("Error removing reaction from post %s: %v", postID, err)
		return fmt.Errorf("failed to remove reaction")
	}
	return nil
}
