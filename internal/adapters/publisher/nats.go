package publisher

import (
	"context"
	"fleet-route-optimizer/internal/domain"
	"fmt"

	natsgo "github.com/nats-io/nats.go"
)

// NATSPublisher publishes records on subject "cvrp.runs.<id>.generations"
// and a final message on "cvrp.runs.<id>.complete".
type NATSPublisher struct {
	nc *natsgo.Conn
}

// ConnectNATS dials url with unlimited reconnects.
func ConnectNATS(url string) (*NATSPublisher, error) {
	nc, err := natsgo.Connect(url, natsgo.MaxReconnects(-1), natsgo.Name("fleet-route-optimizer"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, runID string, rec domain.GenerationRecord) error {
	data, err := encodeRecord(runID, rec)
	if err != nil {
		return fmt.Errorf("nats publish: encode: %w", err)
	}
	if err := p.nc.Publish(generationSubject(runID), data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Complete(_ context.Context, runID string) error {
	data, err := encodeComplete(runID)
	if err != nil {
		return fmt.Errorf("nats complete: encode: %w", err)
	}
	if err := p.nc.Publish(completeSubject(runID), data); err != nil {
		return fmt.Errorf("nats complete: %w", err)
	}
	return p.nc.Flush()
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

func generationSubject(runID string) string { return "cvrp.runs." + runID + ".generations" }
func completeSubject(runID string) string   { return "cvrp.runs." + runID + ".complete" }
