package model

// Content shapes a simulated handset user can compose on an MO message.

type SuggestionResponse struct {
	PostbackData string `json:"postbackData"`
	Text         string `json:"text"`
}

type UserFile struct {
	Payload UserFilePayload `json:"payload"`
}

type UserFilePayload struct {
	MimeType      string `json:"mimeType"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	FileURI       string `json:"fileUri"`
	FileName      string `json:"fileName"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
