package service

import (
	"context"

	"storefront/internal/domain/entity"
)

// GatewayEventBus carries payment widget callbacks to the checkout waiting on them.
type GatewayEventBus interface {
	// Publish hands an event to the next Await call. It blocks until the event
	// is taken or ctx is done.
	Publish(ctx context.Context, event entity.GatewayEvent) error

	// Await blocks until an event arrives or ctx is done. Matching the event's
	// reference against the checkout attempt is the caller's job.
	Await(ctx context.Context) (entity.GatewayEvent, error)

	// Close releases any resources held by the bus
	Close() error
}
