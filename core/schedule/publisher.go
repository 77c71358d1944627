package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/evload/core/factory"
	"github.com/kilianp07/evload/core/model"
)

// Envelope is what publishers deliver: the building load plus the inputs
// that produced it.
type Envelope struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Family      string                 `json:"profile_family"`
	Station     model.StationType      `json:"station_type"`
	EVPercent   float64                `json:"ev_percent"`
	Load        BuildingLoad           `json:"load"`
	Normalized  model.ByDay[[]float64] `json:"normalized"`
}

// Publisher hands a computed schedule to an external collaborator.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// NopPublisher discards every envelope.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }
func (NopPublisher) Close() error                            { return nil }

// MultiPublisher fans an envelope out to several publishers in order. It
// stops at the first failure, so publishers after it never see the envelope.
// In-process subscribers belong at the end.
type MultiPublisher []Publisher

// Publish forwards env to each publisher until one fails.
func (m MultiPublisher) Publish(ctx context.Context, env Envelope) error {
	for i, p := range m {
		if err := p.Publish(ctx, env); err != nil {
			if i > 0 {
				return fmt.Errorf("publisher %d of %d: %w", i+1, len(m), err)
			}
			return err
		}
	}
	return nil
}

// Close closes every publisher.
func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var publisherRegistry = factory.NewRegistry[Publisher]()

// RegisterPublisher adds a publisher factory identified by name.
func RegisterPublisher(name string, f factory.Factory[Publisher]) error {
	return publisherRegistry.Register(name, f)
}

// NewPublisher builds the publishers described by cfgs. No configuration
// yields a NopPublisher.
func NewPublisher(cfgs []factory.ModuleConfig) (Publisher, error) {
	if len(cfgs) == 0 {
		return NopPublisher{}, nil
	}
	pubs, err := publisherRegistry.CreateAll(cfgs)
	if err != nil {
		return nil, err
	}
	if len(pubs) == 1 {
		return pubs[0], nil
	}
	return MultiPublisher(pubs), nil
}

// PublisherTypes lists the registered publisher names.
func PublisherTypes() []string { return publisherRegistry.Names() }

func init() {
	_ = RegisterPublisher("nop", func(map[string]any) (Publisher, error) { return NopPublisher{}, nil })
}
