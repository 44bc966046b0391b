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

type CommentService struct {
	PostCollection      *mongo.Collection
	NotificationService *NotificationService
	Notifier            *clients.NotifierClient
	Logger              *logrus.Logger
}

func NewCommentService(postCollection *mongo.Collection, notificationService *NotificationService, notifier *clients.NotifierClient, logger *logrus.Logger) *CommentService {
	return &CommentService{
		PostCollection:      postCollection,
		NotificationService: notificationService,
		Notifier:            notifier,
		Logger:              logger,
	}
}

// AddComment appends the comment to the post, persists a notification for the
// post owner and then emits it to the notifier. The emit is best effort: once
// the comment is written it stays written, a notification failure only costs
// the real-time push, never the comment.
func (s *CommentService) AddComment(postID, userID, username, content string) (models.Comment, error) {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("invalid post id: %v", err)
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("invalid user id: %v", err)
	}

	var post models.Post
	if err := s.PostCollection.FindOne(context.Background(), bson.M{"_id": postOID}).Decode(&post); err != nil {
		return models.Comment{}, fmt.Errorf("post not found")
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userOID,
		Username:  username,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	result, err := s.PostCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": postOID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		s.Logger.Errorf("Error adding comment to post %s: %v", postID, err)
		return models.Comment{}, fmt.Errorf("failed to add comment")
	}
	if result.ModifiedCount == 0 {
		return models.Comment{}, fmt.Errorf("post not found")
	}

	// Commenting on your own post creates no notification.
	if post.UserID != userOID {
		s.notifyOwner(post, comment)
	}

	return comment, nil
}

func (s *CommentService) notifyOwner(post models.Post, comment models.Comment) {
	notificationID, err := s.NotificationService.Insert(&models.Notification{
		Type:          models.NotificationTypeComment,
		UserID:        post.UserID,
		PostID:        &post.ID,
		ActorID:       &comment.UserID,
		ActorUsername: comment.Username,
		CommentID:     &comment.ID,
		Content:       comment.Content,
		Timestamp:     comment.Timestamp,
	})
	if err != nil {
		s.Logger.Errorf("Failed to persist comment notification for post %s: %v", post.ID.Hex(), err)
		return
	}

	payload := clients.EmitPayload{
		UserOwnerID:    post.UserID.Hex(),
		NotificationID: notificationID.Hex(),
		Data: map[string]interface{}{
			"post_id":    post.ID.Hex(),
			"user_id":    comment.UserID.Hex(),
			"username":   comment.Username,
			"comment_id": comment.ID.Hex(),
			"content":    comment.Content,
		},
		Timestamp: comment.Timestamp,
	}
	if err := s.Notifier.EmitComment(payload); err != nil {
		s.Logger.Warnf("Best-effort emit failed for comment %s: %v", comment.ID.Hex(), err)
	}
}

func (s *CommentService) FetchComments(postID string) ([]models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("invalid post id: %v", err)
	}

	var post models.Post
	if err := s.PostCollection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&post); err != nil {
		return nil, fmt.Errorf("post not found")
	}
	if post.Comments == nil {
		return []models.Comment{}, nil
	}
	return post.Comments, nil
}

// DeleteComment removes the comment when the requester is its author or the
// post owner.
func (s *CommentService) DeleteComment(postID, commentID, requesterID string) error {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post id: %v", err)
	}
	commentOID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("invalid comment id: %v", err)
	}
	requesterOID, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v", err)
	}

	var post models.Post
	if err := s.PostCollection.FindOne(context.Background(), bson.M{"_id": postOID}).Decode(&post); err != nil {
		return fmt.Errorf("post not found")
	}

	allowed := post.UserID == requesterOID
	for _, comment := range post.Comments {
		if comment.ID == commentOID && comment.UserID == requesterOID {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("not allowed to delete this comment")
	}

	result, err := s.PostCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": postOID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentOID}}},
	)
	if err != nil {
		s.Logger.Errorf("Error deleting comment %s: %v", commentID, err)
		return fmt.Errorf("failed to delete comment")
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("comment not found")
	}
	return nil
}
