package dto

// CreateNotificationRequest is the payload of the notification:create task
type CreateNotificationRequest struct {
	RecipientEmail string         `json:"recipient_email"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Type           string         `json:"type"`
	Data           map[string]any `json:"data,omitempty"`
}

// MarkAsReadRequest lists notification IDs to mark read
type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}

// UnreadCountResponse carries the unread badge count
type UnreadCountResponse struct {
	Count int `json:"count"`
}
