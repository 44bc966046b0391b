package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mazart23/pet-book/backend/controller-service/models"
)

type NotificationService struct {
	Client                 *mongo.Client
	NotificationCollection *mongo.Collection
	UserCollection         *mongo.Collection
	Logger                 *logrus.Logger
}

func NewNotificationService(client *mongo.Client, notificationCollection, userCollection *mongo.Collection, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		Client:                 client,
		NotificationCollection: notificationCollection,
		UserCollection:         userCollection,
		Logger:                 logger,
	}
}

// Insert persists a notification and attaches its id to the recipient's user
// document in a single transaction, so the notification list on the user never
// references a missing document.
func (s *NotificationService) Insert(notification *models.Notification) (primitive.ObjectID, error) {
	session, err := s.Client.StartSession()
	if err != nil {
		s.Logger.Errorf("Error starting session: %v", err)
		return primitive.NilObjectID, fmt.Errorf("failed to start session")
	}
	defer session.EndSession(context.Background())

	result, err := session.WithTransaction(context.Background(), func(sc mongo.SessionContext) (interface{}, error) {
		insertResult, err := s.NotificationCollection.InsertOne(sc, notification)
		if err != nil {
			return nil, err
		}
		insertedID := insertResult.InsertedID.(primitive.ObjectID)

		updateResult, err := s.UserCollection.UpdateOne(
			sc,
			bson.M{"_id": notification.UserID},
			bson.M{"$push": bson.M{"notifications": insertedID}},
		)
		if err != nil {
			return nil, err
		}
		if updateResult.ModifiedCount == 0 {
			return nil, fmt.Errorf("user with id %s not updated", notification.UserID.Hex())
		}
		return insertedID, nil
	})
	if err != nil {
		s.Logger.Errorf("Error during notification transaction: %v", err)
		return primitive.NilObjectID, err
	}
	return result.(primitive.ObjectID), nil
}

func (s *NotificationService) InsertScan(userID, ip, city, latitude, longitude, timestamp string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id: %v", err)
	}

	return s.Insert(&models.Notification{
		Type:      models.NotificationTypeScan,
		UserID:    oid,
		IP:        ip,
		City:      city,
		Latitude:  latitude,
		Longitude: longitude,
		Timestamp: timestamp,
	})
}

// Fetch returns the recipient's newest non-dismissed notifications.
func (s *NotificationService) Fetch(userID string, quantity int) ([]models.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %v", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(quantity))

	cursor, err := s.NotificationCollection.Find(
		context.Background(),
		bson.M{"user_id": oid, "dismissed": false},
		findOptions,
	)
	if err != nil {
		s.Logger.Errorf("Error fetching notifications for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch notifications")
	}
	defer cursor.Close(context.Background())

	notifications := []models.Notification{}
	if err := cursor.All(context.Background(), &notifications); err != nil {
		s.Logger.Errorf("Error decoding notifications for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to decode notifications")
	}
	return notifications, nil
}

// Dismiss soft-deletes one notification. The document stays in the collection
// so the id remains stable, it is only filtered out of reads.
func (s *NotificationService) Dismiss(userID, notificationID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v", err)
	}
	notificationOID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %v", err)
	}

	result, err := s.NotificationCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": notificationOID, "user_id": userOID},
		bson.M{"$set": bson.M{"dismissed": true}},
	)
	if err != nil {
		s.Logger.Errorf("Error dismissing notification %s: %v", notificationID, err)
		return fmt.Errorf("failed to dismiss notification")
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}
