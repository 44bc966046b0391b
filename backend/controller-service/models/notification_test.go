package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func marshalToMap(t *testing.T, n Notification) map[string]interface{} {
	t.Helper()

	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

// A scan notification never references a post, an actor or a comment: those
// keys must be absent from its JSON, not present as all-zero object ids.
func TestScanNotificationJSONHasOnlyScanFields(t *testing.T) {
	n := Notification{
		ID:        primitive.NewObjectID(),
		Type:      NotificationTypeScan,
		UserID:    primitive.NewObjectID(),
		Timestamp: "2026-09-01T12:00:00Z",
		IP:        "203.0.113.7",
		City:      "Warszawa",
		Latitude:  "52.2297",
		Longitude: "21.0122",
	}

	m := marshalToMap(t, n)

	assert.Equal(t, "qr_scan", m["notification_type"])
	assert.Equal(t, "Warszawa", m["city"])
	assert.Equal(t, "52.2297", m["latitude"])
	assert.Equal(t, "21.0122", m["longitude"])

	assert.NotContains(t, m, "post_id")
	assert.NotContains(t, m, "user_id")
	assert.NotContains(t, m, "comment_id")
	assert.NotContains(t, m, "content")
	assert.NotContains(t, m, "reaction_type")
}

func TestCommentNotificationJSONCarriesReferences(t *testing.T) {
	postID := primitive.NewObjectID()
	actorID := primitive.NewObjectID()
	commentID := primitive.NewObjectID()

	n := Notification{
		ID:            primitive.NewObjectID(),
		Type:          NotificationTypeComment,
		UserID:        primitive.NewObjectID(),
		Timestamp:     "2026-09-01T12:00:00Z",
		PostID:        &postID,
		ActorID:       &actorID,
		ActorUsername: "rex",
		CommentID:     &commentID,
		Content:       "nice dog",
	}

	m := marshalToMap(t, n)

	assert.Equal(t, postID.Hex(), m["post_id"])
	assert.Equal(t, actorID.Hex(), m["user_id"])
	assert.Equal(t, commentID.Hex(), m["comment_id"])
	assert.Equal(t, "nice dog", m["content"])
	assert.NotContains(t, m, "city")
}

func TestReactionNotificationJSONHasNoCommentID(t *testing.T) {
	postID := primitive.NewObjectID()
	actorID := primitive.NewObjectID()

	n := Notification{
		ID:            primitive.NewObjectID(),
		Type:          NotificationTypeReaction,
		UserID:        primitive.NewObjectID(),
		Timestamp:     "2026-09-01T12:00:00Z",
		PostID:        &postID,
		ActorID:       &actorID,
		ActorUsername: "rex",
		ReactionType:  "likes",
	}

	m := marshalToMap(t, n)

	assert.Equal(t, "likes", m["reaction_type"])
	assert.NotContains(t, m, "comment_id")
	assert.NotContains(t, m, "content")
}

// The recipient id and the dismissed flag are internal, the raw ip is only for
// the audit trail. None of them belong in API responses.
func TestNotificationJSONHidesInternalFields(t *testing.T) {
	n := Notification{
		ID:        primitive.NewObjectID(),
		Type:      NotificationTypeScan,
		UserID:    primitive.NewObjectID(),
		Timestamp: "2026-09-01T12:00:00Z",
		IP:        "203.0.113.7",
		Dismissed: true,
	}

	m := marshalToMap(t, n)

	assert.NotContains(t, m, "dismissed")
	assert.NotContains(t, m, "ip")
	assert.NotContains(t, m, "user_id")
}
