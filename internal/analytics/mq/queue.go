package mq

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Queue publishes analytics events to a message bus.
// Implementations are backed by Kafka, Redis Streams, memory, or a no-op for dev.
type Queue interface {
	PublishEvent(evt map[string]any) error
	Close() error
}

// Event names published by the catalog.
const (
	EventSearch           = "search"
	EventGameOpen         = "game.open"
	EventGameReload       = "game.reload"
	EventGameClose        = "game.close"
	EventFullscreenDenied = "game.fullscreen_denied"
)

// NewEvent builds the common event body.
func NewEvent(name, gameID, query, connID string) map[string]any {
	return map[string]any{
		"event":   name,
		"game_id": gameID,
		"query":   query,
		"conn_id": connID,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
	}
}
