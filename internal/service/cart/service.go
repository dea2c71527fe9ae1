// Package cart is the single source of truth for the persisted cart. Every
// operation re-reads the stored record, mutates a transient copy and writes
// it back; nothing is cached between calls.
package cart

import (
	"context"
	"encoding/json"

	"buywidget/internal/domain"
	"buywidget/internal/repository/storage"
	"go.uber.org/zap"
)

// StorageKey names the persisted record.
const StorageKey = "shopify_buy_cart_v1"

// Notifier is told after every write, successful or not.
type Notifier interface {
	Broadcast(ctx context.Context)
}

type Store struct {
	storage  storage.Storage
	key      string
	logger   *zap.Logger
	notifier Notifier
}

// New builds a Store over s. A non-empty namespace prefixes the key so
// several storefronts can share one backend.
func New(s storage.Storage, namespace string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := StorageKey
	if namespace != "" {
		key = namespace + ":" + StorageKey
	}
	return &Store{storage: s, key: key, logger: logger}
}

// SetNotifier installs the broadcast target. The registry calls this when
// it adopts the store.
func (s *Store) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Store) Key() string {
	return s.key
}

// Read returns the persisted cart. Absent, unreadable or undecodable
// records all yield an empty cart.
func (s *Store) Read(ctx context.Context) domain.Cart {
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("read cart", zap.String("key", s.key), zap.Error(err))
		return domain.EmptyCart()
	}
	if len(raw) == 0 {
		return domain.EmptyCart()
	}
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Debug("decode cart", zap.String("key", s.key), zap.Error(err))
		return domain.EmptyCart()
	}
	out := domain.EmptyCart()
	for _, item := range cart.Items {
		if item.VariantID == "" || item.Quantity < 1 {
			s.logger.Debug("dropping invalid cart item", zap.String("variant_id", item.VariantID), zap.Int("quantity", item.Quantity))
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// Write persists cart and then broadcasts. A storage failure is logged and
// otherwise ignored; the broadcast still runs.
func (s *Store) Write(ctx context.Context, cart domain.Cart) {
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		s.logger.Warn("encode cart", zap.Error(err))
	} else if err := s.storage.Set(ctx, s.key, raw); err != nil {
		s.logger.Warn("write cart", zap.String("key", s.key), zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.Broadcast(ctx)
	}
}

// AddOrIncrement bumps the quantity of the item sharing item.VariantID or
// appends item with quantity 1.
func (s *Store) AddOrIncrement(ctx context.Context, item domain.CartItem) domain.Cart {
	cart := s.Read(ctx)
	if idx := cart.IndexOf(item.VariantID); idx >= 0 {
		cart.Items[idx].Quantity++
	} else {
		item.Quantity = 1
		if item.SelectedOptions == nil {
			item.SelectedOptions = []domain.SelectedOption{}
		}
		cart.Items = append(cart.Items, item)
	}
	s.Write(ctx, cart)
	return cart
}

// SetQuantityDelta applies delta to the item at index; a resulting
// quantity <= 0 deletes it. index is positional against the current read.
func (s *Store) SetQuantityDelta(ctx context.Context, index, delta int) domain.Cart {
	cart := s.Read(ctx)
	if index < 0 || index >= len(cart.Items) {
		return cart
	}
	cart.Items[index].Quantity += delta
	if cart.Items[index].Quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	}
	s.Write(ctx, cart)
	return cart
}

// RemoveAt deletes the item at index.
func (s *Store) RemoveAt(ctx context.Context, index int) domain.Cart {
	cart := s.Read(ctx)
	if index < 0 || index >= len(cart.Items) {
		return cart
	}
	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	s.Write(ctx, cart)
	return cart
}

// Clear persists an empty cart.
func (s *Store) Clear(ctx context.Context) {
	s.Write(ctx, domain.EmptyCart())
}
