package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewCompletionMessage builds the broadcast sent after a user's completed
// set changes.
func NewCompletionMessage(username, dateCode string, taskIDs []int64) []byte {
	data, _ := json.Marshal(Message{
		Action: "completion_updated",
		Payload: map[string]interface{}{
			"username": username,
			"dateCode": dateCode,
			"tasks":    taskIDs,
		},
	})
	return data
}

// NewUserAddedMessage announces a new family member to every connected
// dashboard.
func NewUserAddedMessage(username, firstName, role string) []byte {
	data, _ := json.Marshal(Message{
		Action: "user_added",
		Payload: map[string]string{
			"username":  username,
			"firstName": firstName,
			"role":      role,
		},
	})
	return data
}

// NewPongMessage answers an application-level ping.
func NewPongMessage() []byte {
	data, _ := json.Marshal(Message{Action: "pong"})
	return data
}

// NewErrorMessage builds an error frame for a single client.
func NewErrorMessage(reason string) []byte {
	data, _ := json.Marshal(Message{
		Action:  "error",
		Payload: map[string]string{"reason": reason},
	})
	return data
}
