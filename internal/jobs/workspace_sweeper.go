package jobs

import (
	"context"
	"log"
	"time"

	"rankcheck/internal/workspace"
)

// WorkspaceSweeper drops browser workspaces that have been idle too long.
// Saved analyses are not affected; only the in-memory results are.
type WorkspaceSweeper struct {
	registry *workspace.Registry
	interval time.Duration
	maxIdle  time.Duration
}

// NewWorkspaceSweeper creates a new sweeper.
func NewWorkspaceSweeper(registry *workspace.Registry, interval, maxIdle time.Duration) *WorkspaceSweeper {
	return &WorkspaceSweeper{
		registry: registry,
		interval: interval,
		maxIdle:  maxIdle,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *WorkspaceSweeper) Start(ctx context.Context) {
	log.Printf("Workspace sweeper started (interval: %v, maxIdle: %v)", s.interval, s.maxIdle)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Workspace sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *WorkspaceSweeper) sweep() int {
	pruned := s.registry.Prune(time.Now().Add(-s.maxIdle))
	if pruned > 0 {
		log.Printf("Workspace sweeper: dropped %d idle workspaces, %d remain", pruned, s.registry.Len())
	}
	return pruned
}
