// Package delivery holds the inbound adapters of the storefront client.
package delivery

import "context"

// Delivery is a long-running inbound adapter.
type Delivery interface {
	Serve(ctx context.Context) error
}
