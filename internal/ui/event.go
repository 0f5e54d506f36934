package ui

import (
	"fmt"
	"strings"
)

// Event is a discrete user-interface event.
type Event interface{ eventName() string }

type (
	QueryChanged     struct{ Query string }
	ClearSearch      struct{}
	Select           struct{ ID string }
	Reload           struct{}
	Fullscreen       struct{}
	FullscreenFailed struct{ Reason string }
	Close            struct{}
	KeyPressed       struct{ Key string }
	// Resume adopts a server-rendered page (query plus optional open game)
	// without navigating the frame again.
	Resume struct {
		Query string
		ID    string
	}
)

// KeyEscape is the dismiss key that closes an open player.
const KeyEscape = "Escape"

func (QueryChanged) eventName() string     { return "query" }
func (ClearSearch) eventName() string      { return "clear_search" }
func (Select) eventName() string           { return "select" }
func (Reload) eventName() string           { return "reload" }
func (Fullscreen) eventName() string       { return "fullscreen" }
func (FullscreenFailed) eventName() string { return "fullscreen_failed" }
func (Close) eventName() string            { return "close" }
func (KeyPressed) eventName() string       { return "key" }
func (Resume) eventName() string           { return "resume" }

// Name returns the wire name of ev.
func Name(ev Event) string { return ev.eventName() }

// Envelope is the wire form of an event, shared by the websocket and the update API.
type Envelope struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Query  string `json:"query,omitempty"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Decode turns an envelope into an Event.
func (e Envelope) Decode() (Event, error) {
	switch strings.ToLower(strings.TrimSpace(e.Type)) {
	case "query":
		return QueryChanged{Query: e.Query}, nil
	case "clear_search":
		return ClearSearch{}, nil
	case "select":
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("select without id: %w", ErrUnknownEvent)
		}
		return Select{ID: e.ID}, nil
	case "reload":
		return Reload{}, nil
	case "fullscreen":
		return Fullscreen{}, nil
	case "fullscreen_failed":
		return FullscreenFailed{Reason: e.Reason}, nil
	case "close":
		return Close{}, nil
	case "key":
		return KeyPressed{Key: e.Key}, nil
	case "resume":
		return Resume{Query: e.Query, ID: strings.TrimSpace(e.ID)}, nil
	default:
		return nil, fmt.Errorf("type %q: %w", e.Type, ErrUnknownEvent)
	}
}
