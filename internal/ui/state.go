package ui

import (
	"errors"
	"fmt"

	dom "github.com/cuihairu/arcadehub/internal/ports"
)

var (
	// ErrUnknownGame is returned when a selection names an id that is not in the catalog.
	ErrUnknownGame = errors.New("unknown game")
	// ErrUnknownEvent is returned for events the update function does not understand.
	ErrUnknownEvent = errors.New("unknown event")
)

// Frame is the embedded player surface. Loads counts fresh navigations so a
// reload of the same URL is still observable.
type Frame struct {
	Src   string `json:"src"`
	Loads int    `json:"loads"`
}

// State is the per-page UI state. It is a value: Update returns a new one.
type State struct {
	Query        string    `json:"query"`
	Selected     *dom.Game `json:"selected,omitempty"`
	Frame        Frame     `json:"frame"`
	ScrollLocked bool      `json:"scroll_locked"`
}

// Open reports whether the player is showing a game.
func (s State) Open() bool { return s.Selected != nil }

// EffectKind names a side effect the view layer must carry out.
type EffectKind string

const (
	EffectLoadFrame         EffectKind = "load_frame"
	EffectClearFrame        EffectKind = "clear_frame"
	EffectRequestFullscreen EffectKind = "request_fullscreen"
	EffectLockScroll        EffectKind = "lock_scroll"
	EffectRestoreScroll     EffectKind = "restore_scroll"
	EffectLogDiagnostic     EffectKind = "log_diagnostic"
)

type Effect struct {
	Kind   EffectKind `json:"kind"`
	URL    string     `json:"url,omitempty"`
	Detail string     `json:"detail,omitempty"`
}

// Update applies ev to s and returns the next state plus the effects to perform.
// On error the returned state equals s.
func Update(c dom.Catalog, s State, ev Event) (State, []Effect, error) {
	switch e := ev.(type) {
	case QueryChanged:
		s.Query = e.Query
		return s, nil, nil
	case ClearSearch:
		s.Query = ""
		return s, nil, nil
	case Select:
		g, ok := c.Find(e.ID)
		if !ok {
			return s, nil, fmt.Errorf("select %q: %w", e.ID, ErrUnknownGame)
		}
		s.Selected = &g
		s.Frame = Frame{Src: g.URL, Loads: s.Frame.Loads + 1}
		effects := []Effect{{Kind: EffectLoadFrame, URL: g.URL}}
		if !s.ScrollLocked {
			effects = append(effects, Effect{Kind: EffectLockScroll})
		}
		s.ScrollLocked = true
		return s, effects, nil
	case Reload:
		if !s.Open() {
			return s, nil, nil
		}
		s.Frame = Frame{Src: s.Selected.URL, Loads: s.Frame.Loads + 1}
		return s, []Effect{{Kind: EffectLoadFrame, URL: s.Selected.URL}}, nil
	case Fullscreen:
		if !s.Open() {
			return s, nil, nil
		}
		return s, []Effect{{Kind: EffectRequestFullscreen}}, nil
	case FullscreenFailed:
		if !s.Open() {
			return s, nil, nil
		}
		return s, []Effect{{Kind: EffectLogDiagnostic, Detail: "fullscreen denied: " + e.Reason}}, nil
	case Close:
		return closePlayer(s)
	case KeyPressed:
		if e.Key != KeyEscape {
			return s, nil, nil
		}
		return closePlayer(s)
	case Resume:
		next := State{Query: e.Query, Frame: Frame{Loads: s.Frame.Loads}}
		if e.ID == "" {
			return next, nil, nil
		}
		g, ok := c.Find(e.ID)
		if !ok {
			return s, nil, fmt.Errorf("resume %q: %w", e.ID, ErrUnknownGame)
		}
		next.Selected = &g
		next.Frame = Frame{Src: g.URL, Loads: max(s.Frame.Loads, 1)}
		next.ScrollLocked = true
		return next, nil, nil
	default:
		return s, nil, fmt.Errorf("%T: %w", ev, ErrUnknownEvent)
	}
}

func closePlayer(s State) (State, []Effect, error) {
	if !s.Open() {
		return s, nil, nil
	}
	s.Selected = nil
	s.Frame.Src = ""
	s.ScrollLocked = false
	return s, []Effect{{Kind: EffectClearFrame}, {Kind: EffectRestoreScroll}}, nil
}
