// Package gateway bridges payment widget callbacks to the checkout waiting on them.
package gateway

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"go.uber.org/fx"
)

// ErrClosed is returned by a dispatcher that has been closed.
var ErrClosed = errors.New("gateway dispatcher closed")

// Dispatcher hands each published event to exactly one waiting Await call.
// It holds no backlog: an event nobody awaits is refused, not queued.
type Dispatcher struct {
	events    chan entity.GatewayEvent
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

var _ service.GatewayEventBus = (*Dispatcher)(nil)

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		events: make(chan entity.GatewayEvent),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (d *Dispatcher) Publish(ctx context.Context, event entity.GatewayEvent) error {
	select {
	case d.events <- event:
		d.logger.Debug("Gateway event delivered",
			slog.String("kind", string(event.Kind)),
			slog.String("reference", event.Reference),
		)

		return nil
	case <-d.done:
		return ErrClosed
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "no checkout is waiting for a gateway event")
	}
}

func (d *Dispatcher) Await(ctx context.Context) (entity.GatewayEvent, error) {
	select {
	case event := <-d.events:
		return event, nil
	case <-d.done:
		return entity.GatewayEvent{}, ErrClosed
	case <-ctx.Done():
		return entity.GatewayEvent{}, errors.Wrap(ctx.Err(), "waiting for gateway event")
	}
}

// Close wakes every blocked Publish and Await. It is safe to call more than once.
func (d *Dispatcher) Close() error {
	d.closeOnce.Do(func() {
		close(d.done)
	})

	return nil
}

// NewEventBus provides the dispatcher as the checkout's event bus and closes it on shutdown.
func NewEventBus(lc fx.Lifecycle, logger *slog.Logger) service.GatewayEventBus {
	dispatcher := NewDispatcher(logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return dispatcher.Close()
		},
	})

	return dispatcher
}

// Module provides the gateway event bus FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventBus),
)
