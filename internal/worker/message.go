package worker

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Control message types posted by the hosting page.
const (
	MessageSkipWaiting = "SKIP_WAITING"
	MessageGetVersion  = "GET_VERSION"
)

// ErrNoReplyPort is returned when a message that expects a reply has nowhere to send it.
var ErrNoReplyPort = errors.New("message has no reply port")

// Message is a control message from the hosting page.
type Message struct {
	Type string `json:"type"`
}

// VersionReply is posted in answer to GET_VERSION.
type VersionReply struct {
	Version string `json:"version"`
}

// Port is the reply channel supplied with a message.
type Port interface {
	PostMessage(msg any) error
}

// PortFunc adapts a function to Port.
type PortFunc func(msg any) error

// PostMessage implements Port.
func (f PortFunc) PostMessage(msg any) error {
	return f(msg)
}

// Message handles a control message. Unknown types are ignored.
func (w *Worker) Message(ctx context.Context, msg Message, reply Port) error {
	switch msg.Type {
	case MessageSkipWaiting:
		w.mu.Lock()
		w.skipWaiting = true
		waiting := w.state == StateInstalled
		w.mu.Unlock()

		if waiting {
			_, err := w.Activate(ctx)
			return err
		}
		return nil

	case MessageGetVersion:
		if reply == nil {
			return ErrNoReplyPort
		}
		return reply.PostMessage(VersionReply{Version: w.cfg.CacheName})

	default:
		log.Debug().Str("event", "message").Str("type", msg.Type).Msg("Ignoring unknown message")
		return nil
	}
}
