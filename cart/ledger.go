// Package cart holds the in-memory shopping cart: an insertion-ordered
// sequence of line items keyed by product ID. The cart has no persistence;
// it is lost on restart.
package cart

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/models"
)

// Notifier receives a user-facing message for every cart mutation.
type Notifier interface {
	Notify(msg string)
}

// LogNotifier surfaces cart events through the structured log.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Notify(msg string) {
	n.Log.Info("cart", zap.String("event", msg))
}

type noopNotifier struct{}

func (noopNotifier) Notify(string) {}

// Ledger is the cart. All operations are total: invalid input is a no-op.
type Ledger struct {
	mu       sync.Mutex
	items    []models.CartItem
	notifier Notifier
}

func NewLedger(n Notifier) *Ledger {
	if n == nil {
		n = noopNotifier{}
	}
	return &Ledger{notifier: n}
}

// Add appends item with quantity 1, or increments the quantity of the
// existing line with the same product ID. The incoming quantity, name and
// price never overwrite an existing line.
func (l *Ledger) Add(item models.CartItem) {
	l.mu.Lock()
	for i := range l.items {
		if l.items[i].ProductID == item.ProductID {
			l.items[i].Quantity++
			name := l.items[i].Name
			l.mu.Unlock()
			l.notifier.Notify(fmt.Sprintf("%s quantity updated.", name))
			return
		}
	}
	item.Quantity = 1
	l.items = append(l.items, item)
	l.mu.Unlock()
	l.notifier.Notify(fmt.Sprintf("%s added to cart.", item.Name))
}

// Remove deletes the line with the given product ID; no-op when absent.
func (l *Ledger) Remove(productID int) {
	l.mu.Lock()
	for i := range l.items {
		if l.items[i].ProductID == productID {
			name := l.items[i].Name
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.mu.Unlock()
			l.notifier.Notify(fmt.Sprintf("%s removed from cart.", name))
			return
		}
	}
	l.mu.Unlock()
}

// SetQuantity overwrites the quantity of the matching line. No lower bound
// is enforced here; the surface disallows quantities below 1.
func (l *Ledger) SetQuantity(productID, quantity int) {
	l.mu.Lock()
	for i := range l.items {
		if l.items[i].ProductID == productID {
			l.items[i].Quantity = quantity
			name := l.items[i].Name
			l.mu.Unlock()
			l.notifier.Notify(fmt.Sprintf("%s quantity updated.", name))
			return
		}
	}
	l.mu.Unlock()
}

// Clear empties the cart.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
	l.notifier.Notify("Cart cleared successfully.")
}

// Items returns a copy of the lines in insertion order.
func (l *Ledger) Items() []models.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.CartItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of lines.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Total recomputes the cart total as Σ(price × quantity).
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var sum float64
	for _, item := range l.items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}
