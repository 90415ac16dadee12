package v1

type CreateAgentEventRequest struct {
	EventType string `json:"eventType"`
	MessageID string `json:"messageId,omitempty"`
	EventID   string `json:"eventId,omitempty"`
}

type BatchGetUsersRequest struct {
	Users []string `json:"users"`
}
