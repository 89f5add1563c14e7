package ports

import (
	"context"
	"fleet-route-optimizer/internal/domain"
)

// Contract for fanning out per-generation records to external subscribers.
// Publishing is one-way: failures never affect the run that produced them.
type SnapshotPublisher interface {
	Publish(ctx context.Context, runID string, rec domain.GenerationRecord) error
	// Signal that no more records will be published for runID.
	Complete(ctx context.Context, runID string) error
}

// Optional extension of SnapshotPublisher for in-process live consumers.
type SnapshotSubscriber interface {
	// Return a channel closed on Complete, and a cancel func.
	Subscribe(runID string) (<-chan domain.GenerationRecord, func())
}
