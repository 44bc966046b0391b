package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserService resolves scanned user ids to usernames for the landing page.
// The redirecter only ever reads.
type UserService struct {
	UserCollection *mongo.Collection
	Logger         *logrus.Logger
}

func NewUserService(userCollection *mongo.Collection, logger *logrus.Logger) *UserService {
	return &UserService{
		UserCollection: userCollection,
		Logger:         logger,
	}
}

func (s *UserService) GetUsername(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", fmt.Errorf("invalid user id: %v", err)
	}

	var user struct {
		Username string `bson:"username"`
	}
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&user); err != nil {
		s.Logger.Errorf("Error fetching user %s: %v", id, err)
		return "", fmt.Errorf("user not found")
	}
	return user.Username, nil
}
