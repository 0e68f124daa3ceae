package cart

import (
	"sync"

	"github.com/ezzshop/ezzshop-backend/pkg/types"
	"github.com/google/uuid"
)

// Subscriber receives the full item list after each mutation.
type Subscriber func(items []Item)

// Holder is the mutexed in-memory cart state for one session. Mutations
// apply in invocation order and subscribers are notified in that same
// order, with the post-mutation snapshot.
type Holder struct {
	mu          sync.Mutex
	items       []Item
	subscribers []Subscriber
}

// NewHolder builds a holder seeded with the hydrated items.
func NewHolder(items []Item) *Holder {
	return &Holder{items: items}
}

// Subscribe registers a callback for every subsequent mutation.
func (h *Holder) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.subscribers = append(h.subscribers, fn)
	h.mu.Unlock()
}

// AddItem merges the product into the cart: an existing line gains the
// quantity, a new product appends a line.
func (h *Holder) AddItem(item Item) []Item {
	h.mu.Lock()
	defer h.mu.Unlock()

	merged := false
	for i := range h.items {
		if h.items[i].ProductID == item.ProductID {
			h.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		h.items = append(h.items, item)
	}
	return h.notifyLocked()
}

// UpdateQuantity sets the line quantity exactly; zero or negative removes
// the line. Absent products are a no-op.
func (h *Holder) UpdateQuantity(productID uuid.UUID, quantity int) []Item {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.items {
		if h.items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			h.items = append(h.items[:i], h.items[i+1:]...)
		} else {
			h.items[i].Quantity = quantity
		}
		return h.notifyLocked()
	}
	return h.snapshotLocked()
}

// RemoveItem drops the line when present, no-op otherwise.
func (h *Holder) RemoveItem(productID uuid.UUID) []Item {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.items {
		if h.items[i].ProductID == productID {
			h.items = append(h.items[:i], h.items[i+1:]...)
			return h.notifyLocked()
		}
	}
	return h.snapshotLocked()
}

// Clear empties the cart.
func (h *Holder) Clear() []Item {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = nil
	return h.notifyLocked()
}

// Items returns a copy of the current lines.
func (h *Holder) Items() []Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// TotalItems sums quantities across lines. Recomputed on every call.
func (h *Holder) TotalItems() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := 0
	for _, item := range h.items {
		total += item.Quantity
	}
	return total
}

// TotalPriceCents sums line totals across lines. Recomputed on every call.
func (h *Holder) TotalPriceCents() types.Cents {
	h.mu.Lock()
	defer h.mu.Unlock()

	var total types.Cents
	for _, item := range h.items {
		total += item.LineTotalCents()
	}
	return total
}

// notifyLocked dispatches the post-mutation snapshot to subscribers while
// the mutex is held, so notifications arrive in mutation order.
func (h *Holder) notifyLocked() []Item {
	snapshot := h.snapshotLocked()
	for _, fn := range h.subscribers {
		fn(snapshot)
	}
	return snapshot
}

func (h *Holder) snapshotLocked() []Item {
	snapshot := make([]Item, len(h.items))
	copy(snapshot, h.items)
	return snapshot
}
