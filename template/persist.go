package template

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Persistence is the storage boundary for template snapshots. The host
// provides the implementation; the engine never owns a transport.
type Persistence interface {
	// Load returns the current snapshot, or nil when none has been
	// saved yet.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Memory is an in-process Persistence keeping the snapshot as encoded
// bytes. It serves tests and demos; the round trip through JSON keeps
// it honest about what a real adapter would see.
type Memory struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemory returns an empty in-memory persistence.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(m.data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (m *Memory) Save(_ context.Context, snap *Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	m.mu.Lock()
	m.data = b
	m.mu.Unlock()
	return nil
}

// Bytes returns the stored encoding, or nil when nothing was saved.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data...)
}
