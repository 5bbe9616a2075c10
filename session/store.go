// Package session holds the storefront's authentication state: a two-slot
// key-value store for the bearer token and user profile, and a manager that
// derives authenticated state from it.
package session

import "context"

// Store slots. The token slot holds the raw compact token string; the user
// slot holds the JSON-serialized profile.
const (
	SlotToken = "token"
	SlotUser  = "user"
)

// Store is a scoped key-value persistence surface for session state.
// Writes are synchronous and immediately observable by every execution
// context attached to the same storage; liveness of the stored token is not
// enforced here.
type Store interface {
	// Get returns the value for slot and whether it was present.
	Get(ctx context.Context, slot string) (string, bool, error)

	// Set stores value under slot, overwriting any previous value.
	Set(ctx context.Context, slot, value string) error

	// Clear removes slot. Clearing an absent slot is a no-op.
	Clear(ctx context.Context, slot string) error

	// Subscribe returns a channel that receives a signal whenever the
	// store changes, and a function that cancels the subscription.
	Subscribe(ctx context.Context) (<-chan struct{}, func())
}
