package progress

import (
	"context"
	"sync"

	"FreshmanRoll/internal/route"
)

// Store persists the logical progress record.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Close() error
}

// MemoryStore keeps the record in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	rec Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Record{
		Completed:    append([]route.Ending(nil), s.rec.Completed...),
		MetaUnlocked: s.rec.MetaUnlocked,
	}, nil
}

func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = Record{
		Completed:    append([]route.Ending(nil), rec.Completed...),
		MetaUnlocked: rec.MetaUnlocked,
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
