package publisher

import (
	"context"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ports"
)

// Fanout publishes to every target and joins their errors.
// Subscribe is served by the first target that supports it.
type Fanout []ports.SnapshotPublisher

func (f Fanout) Publish(ctx context.Context, runID string, rec domain.GenerationRecord) error {
	var errs []error
	for _, p := range f {
		errs = append(errs, p.Publish(ctx, runID, rec))
	}
	return errors.Join(errs...)
}

func (f Fanout) Complete(ctx context.Context, runID string) error {
	var errs []error
	for _, p := range f {
		errs = append(errs, p.Complete(ctx, runID))
	}
	return errors.Join(errs...)
}

func (f Fanout) Subscribe(runID string) (<-chan domain.GenerationRecord, func()) {
	for _, p := range f {
		if s, ok := p.(ports.SnapshotSubscriber); ok {
			return s.Subscribe(runID)
		}
	}
	ch := make(chan domain.GenerationRecord)
	close(ch)
	return ch, func() {}
}
