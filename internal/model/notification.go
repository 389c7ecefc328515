package model

// Notification types pushed to owners.
const (
	NotificationLinkClick = "link.click"
	NotificationSystem    = "system"
)

// NotificationMessage is pushed to a live owner channel; it is never persisted.
type NotificationMessage struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload,omitempty"`
}
