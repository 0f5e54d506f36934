package mq

import "sync"

// Memory keeps the most recent events in process.
type Memory struct {
	mu     sync.Mutex
	limit  int
	events []map[string]any
}

// NewMemory retains at most limit events; limit <= 0 keeps everything.
func NewMemory(limit int) *Memory { return &Memory{limit: limit} }

func (m *Memory) PublishEvent(evt map[string]any) error {
	cp := make(map[string]any, len(evt))
	for k, v := range evt {
		cp[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, cp)
	if m.limit > 0 && len(m.events) > m.limit {
		m.events = m.events[len(m.events)-m.limit:]
	}
	return nil
}

// Events returns a snapshot in publish order.
func (m *Memory) Events() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, len(m.events))
	copy(out, m.events)
	return out
}

func (m *Memory) Close() error { return nil }
