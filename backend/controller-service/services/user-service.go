package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Mazart23/pet-book/backend/controller-service/models"
	"github.com/Mazart23/pet-book/backend/utils"
)

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

func (s *UserService) GetUserByID(id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user id: %v", err)
	}

	var user models.User
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&user); err != nil {
		s.Logger.Errorf("Error fetching user %s: %v", id, err)
		return models.User{}, fmt.Errorf("user not found")
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"username": username}).Decode(&user); err != nil {
		s.Logger.Errorf("Error fetching user %s: %v", username, err)
		return models.User{}, fmt.Errorf("user not found")
	}
	return user, nil
}

// Login verifies credentials and issues the bearer token used across all
// services, subject claim set to the user id.
func (s *UserService) Login(username, password string) (string, models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return "", models.User{}, fmt.Errorf("invalid credentials")
	}

	if !utils.CheckPassword(user.HashedPassword, password) {
		return "", models.User{}, fmt.Errorf("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Username)
	if err != nil {
		s.Logger.Errorf("Error generating token for user %s: %v", username, err)
		return "", models.User{}, fmt.Errorf("failed to generate token")
	}
	return token, user, nil
}

func (s *UserService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.HashedPassword, oldPassword) {
		return fmt.Errorf("invalid credentials")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	result, err := s.UserCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"hashed_password": hashed}},
	)
	if err != nil {
		s.Logger.Errorf("Error updating password for user %s: %v", userID, err)
		return fmt.Errorf("failed to update password")
	}
	if result.ModifiedCount == 0 {
		s.Logger.Infof("User with id %s not updated", userID)
		return fmt.Errorf("user not updated")
	}
	return nil
}

func (s *UserService) UpdatePicture(userID, pictureURL string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v", err)
	}

	result, err := s.UserCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"profile_picture_url": pictureURL}},
	)
	if err != nil {
		s.Logger.Errorf("Error updating profile picture for user %s: %v", userID, err)
		return fmt.Errorf("failed to update profile picture")
	}
	if result.ModifiedCount == 0 {
		s.Logger.Infof("Profile picture not updated for user %s", userID)
		return fmt.Errorf("profile picture not updated")
	}
	return nil
}
