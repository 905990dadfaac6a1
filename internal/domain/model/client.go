package model

import "time"

// Client is a window (page) known to the proxy.
//
// @Description Window client
type Client struct {
	ID         string    `json:"id"`
	URL        string    `json:"url" example:"/"`
	Type       string    `json:"type" example:"window"`
	Focused    bool      `json:"focused"`
	Controlled bool      `json:"controlled"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClientTypeWindow is the only client type the proxy tracks.
const ClientTypeWindow = "window"
