package player

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Factory builds the engine for a guild the first time it is needed.
type Factory func(guildID string) *Player

// Registry hands out one engine per guild. Engines live until Shutdown.
type Registry struct {
	mu      sync.Mutex
	players map[string]*Player
	factory Factory
	closed  bool
}

// NewRegistry creates an empty registry that builds engines with factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		players: make(map[string]*Player),
		factory: factory,
	}
}

// GetOrCreate returns the engine for guildID, creating it on first use.
// Concurrent callers for the same guild always get the same engine.
func (r *Registry) GetOrCreate(guildID string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if p, ok := r.players[guildID]; ok {
		return p, nil
	}

	p := r.factory(guildID)
	r.players[guildID] = p
	log.Printf("[Registry] Created player | guild=%s total=%d", guildID, len(r.players))
	return p, nil
}

// Get returns the engine for guildID if one exists.
func (r *Registry) Get(guildID string) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[guildID]
	return p, ok
}

// Len returns the number of engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Shutdown closes every engine. Later GetOrCreate calls fail with ErrClosed.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	players := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	r.mu.Unlock()

	var errs []error
	for _, p := range players {
		if err := p.Close(ctx); err != nil {
			log.Printf("[Registry] Failed to close player | guild=%s err=%v", p.GuildID(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
