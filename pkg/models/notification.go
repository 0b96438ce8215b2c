package models

import "time"

// Notification types
const (
	NotificationContentApproved  = "content_approved"
	NotificationContentRejected  = "content_rejected"
	NotificationContentSubmitted = "content_submitted"
	NotificationReply            = "reply"
)

// Notification is a message directed at one user. Rows are pushed to
// connected clients over the websocket feed as they are created.
type Notification struct {
	ID        string                 `json:"id" db:"id"`
	UserID    string                 `json:"user_id" db:"user_id"`
	Type      string                 `json:"type" db:"type"`
	Message   string                 `json:"message" db:"message"`
	Link      *string                `json:"link,omitempty" db:"link"`
	Read      bool                   `json:"read" db:"read"`
	Data      map[string]interface{} `json:"data,omitempty" db:"data"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// NotificationListResponse represents paginated notifications with the
// unread count clients badge with.
type NotificationListResponse struct {
	Data        []*Notification `json:"data"`
	UnreadCount int             `json:"unread_count"`
	Total       int             `json:"total"`
}
