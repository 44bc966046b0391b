package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mazart23/pet-book/backend/controller-service/models"
)

type PostService struct {
	PostCollection *mongo.Collection
	UserCollection *mongo.Collection
	Logger         *logrus.Logger
}

func NewPostService(postCollection, userCollection *mongo.Collection, logger *logrus.Logger) *PostService {
	return &PostService{
		PostCollection: postCollection,
		UserCollection: userCollection,
		Logger:         logger,
	}
}

func (s *PostService) CreatePost(userID, description string, imagesURLs []string, location string) (models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Post{}, fmt.Errorf("invalid user id: %v", err)
	}
	if imagesURLs == nil {
		imagesURLs = []string{}
	}

	post := models.Post{
		UserID:      oid,
		Description: description,
		ImagesURLs:  imagesURLs,
		Comments:    []models.Comment{},
		Reactions:   []models.Reaction{},
		Location:    location,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	insertResult, err := s.PostCollection.InsertOne(context.Background(), post)
	if err != nil {
		s.Logger.Errorf("Error creating post for user %s: %v", userID, err)
		return models.Post{}, fmt.Errorf("failed to create post")
	}
	post.ID = insertResult.InsertedID.(primitive.ObjectID)

	updateResult, err := s.UserCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"posts": post.ID}},
	)
	if err != nil || updateResult.ModifiedCount == 0 {
		s.Logger.Errorf("User with id %s not updated with new post: %v", userID, err)
		return models.Post{}, fmt.Errorf("failed to attach post to user")
	}

	return post, nil
}

// FetchPosts returns posts newest first. An empty userID means the global feed.
func (s *PostService) FetchPosts(userID string, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{}
	if userID != "" {
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, fmt.Errorf("invalid user id: %v", err)
		}
		filter["_user_id"] = oid
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.PostCollection.Find(context.Background(), filter, findOptions)
	if err != nil {
		s.Logger.Errorf("Error fetching posts: %v", err)
		return nil, fmt.Errorf("failed to fetch posts")
	}
	defer cursor.Close(context.Background())

	posts := []models.Post{}
	if err := cursor.All(context.Background(), &posts); err != nil {
		s.Logger.Errorf("Error decoding posts: %v", err)
		return nil, fmt.Errorf("failed to decode posts")
	}
	return posts, nil
}

func (s *PostService) GetPost(postID string) (models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.Post{}, fmt.Errorf("invalid post id: %v", err)
	}

	var post models.Post
	if err := s.PostCollection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&post); err != nil {
		return models.Post{}, fmt.Errorf("post not found")
	}
	return post, nil
}

// ModifyPost updates only the provided fields, owner only. A nil description or
// images slice leaves that field untouched.
func (s *PostService) ModifyPost(postID, userID string, description *string, imagesURLs []string) error {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post id: %v", err)
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v", err)
	}

	updateFields := bson.M{}
	if description != nil {
		updateFields["description"] = *description
	}
	if imagesURLs != nil {
		updateFields["images_urls"] = imagesURLs
	}
	if len(updateFields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	result, err := s.PostCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": postOID, "_user_id": userOID},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		s.Logger.Errorf("Error modifying post %s: %v", postID, err)
		return fmt.Errorf("failed to modify post")
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}

func (s *PostService) DeletePost(postID, userID string) error {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post id: %v", err)
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v", err)
	}

	deleteResult, err := s.PostCollection.DeleteOne(
		context.Background(),
		bson.M{"_id": postOID, "_user_id": userOID},
	)
	if err != nil {
		s.Logger.Errorf("Error deleting post %s: %v", postID, err)
		return fmt.Errorf("failed to delete post")
	}
	if deleteResult.DeletedCount == 0 {
		s.Logger.Infof("No post found with id %s to delete", postID)
		return fmt.Errorf("post not found")
	}

	if _, err := s.UserCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": userOID},
		bson.M{"$pull": bson.M{"posts": postOID}},
	); err != nil {
		s.Logger.Errorf("Error detaching post %s from user %s: %v", postID, userID, err)
		return fmt.Errorf("failed to detach post from user")
	}
	return nil
}
