package models

// EmitRequest is the body the controller posts to /emit/{comment,reaction,scan}
// after the triggering write has been persisted. UserOwnerID addresses the
// recipient (the owner of the resource acted on, never the actor) and is
// stripped before the payload goes out to the client.
type EmitRequest struct {
	UserOwnerID    string                 `json:"user_owner_id"`
	NotificationID string                 `json:"notification_id"`
	Data           map[string]interface{} `json:"data"`
	Timestamp      string                 `json:"timestamp"`
}

// Message is one frame pushed to a websocket client. Event names the channel,
// notification_<event_type>, so clients can subscribe selectively.
type Message struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}
