package service

import (
	"encoding/json"

	"github.com/sboli/rcstrap/internal/model"
)

type CreateAgentMessageCommand struct {
	Phone   string
	Payload map[string]any
}

type CreateAgentMessageResponse struct {
	// Name is the RBM resource identifier, phones/{phone}/agentMessages/{messageId}.
	Name string `json:"name"`
}

type ComposeUserMessageCommand struct {
	Phone              string                    `json:"phone"`
	Text               *string                   `json:"text,omitempty"`
	SuggestionResponse *model.SuggestionResponse `json:"suggestionResponse,omitempty"`
	UserFile           *model.UserFile           `json:"userFile,omitempty"`
	Location           *model.Location           `json:"location,omitempty"`
}

type Conversation struct {
	Phone         string          `json:"phone"`
	LastMessage   json.RawMessage `json:"lastMessage"`
	LastCreatedAt string          `json:"lastCreatedAt"`
	MessageCount  int             `json:"messageCount"`
}

type ListMessagesQuery struct {
	Phone  string
	Limit  int
	Offset int
}
