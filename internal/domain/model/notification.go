package model

import "time"

// Notification action identifiers matched by exact string on click.
const (
	ActionOpen    = "open"
	ActionDismiss = "dismiss"
)

// NotificationAction is a button offered on a notification.
//
// @Description Notification action button
type NotificationAction struct {
	Action string `json:"action" example:"open"`
	Title  string `json:"title" example:"Open VitalTrack"`
	Icon   string `json:"icon,omitempty" example:"/icon-72x72.png"`
}

// NotificationData is the arbitrary payload carried by a notification.
type NotificationData struct {
	URL       string `json:"url" example:"/"`
	Timestamp int64  `json:"timestamp" example:"1760745600000"`
}

// Notification describes a single user-facing notification.
// It is built fresh for every event and never persisted.
//
// @Description Displayed notification
type Notification struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title" example:"VitalTrack Health Reminder"`
	Body               string               `json:"body" example:"Time to check your health goals!"`
	Icon               string               `json:"icon,omitempty"`
	Badge              string               `json:"badge,omitempty"`
	Vibrate            []int                `json:"vibrate,omitempty"`
	Tag                string               `json:"tag,omitempty"`
	Actions            []NotificationAction `json:"actions,omitempty"`
	Data               *NotificationData    `json:"data,omitempty"`
	RequireInteraction bool                 `json:"require_interaction"`
	Silent             bool                 `json:"silent"`
	ShownAt            time.Time            `json:"shown_at"`
}

// HasAction reports whether the notification offers the given action.
func (n *Notification) HasAction(action string) bool {
	for _, a := range n.Actions {
		if a.Action == action {
			return true
		}
	}
	return false
}

// TargetURL returns the URL recorded in the notification data, or fallback.
func (n *Notification) TargetURL(fallback string) string {
	if n.Data != nil && n.Data.URL != "" {
		return n.Data.URL
	}
	return fallback
}
