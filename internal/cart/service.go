package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/kvstore"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
	"github.com/google/uuid"
)

// KeyFunc maps a session id to its storage key.
type KeyFunc func(sessionID string) string

// Service keys carts by session (authenticated user id or anonymous
// session id) and persists every mutation as a whole-value JSON overwrite,
// so concurrent readers of the store only ever see pre- or post-mutation
// snapshots.
type Service interface {
	Get(ctx context.Context, sessionID string) ([]Item, error)
	AddItem(ctx context.Context, sessionID string, item Item) ([]Item, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) ([]Item, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) ([]Item, error)
	Clear(ctx context.Context, sessionID string) error
	Destroy(ctx context.Context, sessionID string) error
	Totals(ctx context.Context, sessionID string) (Totals, error)
	Subscribe(ctx context.Context, sessionID string, fn Subscriber) error
}

// Totals is the derived summary for a session's cart.
type Totals struct {
	TotalItems      int         `json:"totalItems"`
	TotalPriceCents types.Cents `json:"totalPriceCents"`
}

type service struct {
	store kvstore.Store
	keyFn KeyFunc
	ttl   time.Duration
	logg  *logger.Logger

	mu      sync.Mutex
	holders map[string]*Holder
}

// NewService builds a cart service backed by the provided KV store.
func NewService(store kvstore.Store, keyFn KeyFunc, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if keyFn == nil {
		keyFn = func(sessionID string) string { return "cart:" + sessionID }
	}
	return &service{
		store:   store,
		keyFn:   keyFn,
		ttl:     ttl,
		logg:    logg,
		holders: make(map[string]*Holder),
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) ([]Item, error) {
	holder, err := s.holder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return holder.Items(), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, item Item) ([]Item, error) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	holder, err := s.holder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items := holder.AddItem(item)
	s.persist(ctx, sessionID, items)
	return items, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) ([]Item, error) {
	holder, err := s.holder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items := holder.UpdateQuantity(productID, quantity)
	s.persist(ctx, sessionID, items)
	return items, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) ([]Item, error) {
	holder, err := s.holder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items := holder.RemoveItem(productID)
	s.persist(ctx, sessionID, items)
	return items, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	holder, err := s.holder(ctx, sessionID)
	if err != nil {
		return err
	}
	items := holder.Clear()
	s.persist(ctx, sessionID, items)
	return nil
}

// Destroy drops the session's cart entirely, in memory and in the store.
// Used on logout.
func (s *service) Destroy(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.holders, sessionID)
	s.mu.Unlock()
	return s.store.Delete(ctx, s.keyFn(sessionID))
}

func (s *service) Totals(ctx context.Context, sessionID string) (Totals, error) {
	holder, err := s.holder(ctx, sessionID)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		TotalItems:      holder.TotalItems(),
		TotalPriceCents: holder.TotalPriceCents(),
	}, nil
}

func (s *service) Subscribe(ctx context.Context, sessionID string, fn Subscriber) error {
	holder, err := s.holder(ctx, sessionID)
	if err != nil {
		return err
	}
	holder.Subscribe(fn)
	return nil
}

// holder returns the session's holder, hydrating it from the store on
// first access. Malformed stored JSON hydrates an empty cart; it never
// surfaces as an error.
func (s *service) holder(ctx context.Context, sessionID string) (*Holder, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	s.mu.Lock()
	if holder, ok := s.holders[sessionID]; ok {
		s.mu.Unlock()
		return holder, nil
	}
	s.mu.Unlock()

	items := s.hydrate(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if holder, ok := s.holders[sessionID]; ok {
		return holder, nil
	}
	holder := NewHolder(items)
	s.holders[sessionID] = holder
	return holder, nil
}

func (s *service) hydrate(ctx context.Context, sessionID string) []Item {
	raw, err := s.store.Get(ctx, s.keyFn(sessionID))
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) && s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart hydration failed, starting empty")
		}
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding malformed cart snapshot")
		}
		return nil
	}
	return items
}

// persist writes the full item list after a mutation. Best effort: a store
// failure is logged and the in-memory state stays authoritative.
func (s *service) persist(ctx context.Context, sessionID string, items []Item) {
	if items == nil {
		items = []Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "encoding cart snapshot", err)
		}
		return
	}
	if err := s.store.Set(ctx, s.keyFn(sessionID), string(payload), s.ttl); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart snapshot write failed, memory state retained")
	}
}
