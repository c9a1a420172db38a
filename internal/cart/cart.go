package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopfront/cartstore/internal/catalog"
	"github.com/shopfront/cartstore/internal/domain"
	"github.com/shopfront/cartstore/internal/storage"
)

// Failure kinds returned by cart mutations. Every failure leaves the cart
// exactly as it was; callers that do not branch on the kind can ignore the
// error and rely on the notifier.
var (
	ErrOutOfStock     = errors.New("requested amount exceeds available stock")
	ErrLookupFailed   = errors.New("stock lookup failed")
	ErrNotFound       = errors.New("product not in cart")
	ErrInvalidRequest = errors.New("invalid request")
	ErrPersistFailed  = errors.New("failed to persist cart")
)

// DefaultKey is the storage key used when no session key is configured.
const DefaultKey = "cart:default"

// NewSessionKey mints a fresh per-session storage key.
func NewSessionKey() string {
	return "cart:" + uuid.New().String()
}

// Recorder receives a best-effort record of each committed mutation.
// Consumers define this interface, not the journal implementation.
type Recorder interface {
	Record(op string, productID int64, amount int)
}

// Store owns the cart state. All mutations are serialized through a single
// mutex, so two concurrent AddProduct calls for the same product cannot lose
// an increment. Each mutation either fully commits (memory and persistence
// together) or changes nothing.
type Store struct {
	mu       sync.Mutex
	items    []domain.Product
	storage  storage.Store
	catalog  catalog.Client
	notifier Notifier
	recorder Recorder
	key      string
}

type Option func(*Store)

// WithKey overrides the storage key, e.g. with NewSessionKey().
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithNotifier replaces the default log-backed notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithRecorder attaches a mutation recorder (see the events package).
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// New hydrates a cart store from persisted state. An absent blob yields an
// empty cart; a malformed blob is logged, treated as absent and overwritten
// on the next successful mutation.
func New(ctx context.Context, st storage.Store, cat catalog.Client, opts ...Option) (*Store, error) {
	s := &Store{
		storage:  st,
		catalog:  cat,
		notifier: logNotifier{},
		key:      DefaultKey,
	}
	for _, opt := range opts {
		opt(s)
	}

	blob, err := st.Read(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("hydrate cart: %w", err)
	}

	var items []domain.Product
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		log.Printf("discarding malformed cart blob under %q: %v", s.key, err)
		return s, nil
	}
	s.items = items

	return s, nil
}

// Cart returns a snapshot of the current line items, in insertion order.
// The snapshot is a copy and safe for the caller to hold.
func (s *Store) Cart() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneProducts(s.items)
}

// AddProduct adds one unit of the product to the cart, appending a new line
// item on first add and incrementing the existing one otherwise.
func (s *Store) AddProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		s.notifier.Notify(MsgAddFailed)
		return fmt.Errorf("stock lookup for product %d: %w", productID, ErrLookupFailed)
	}

	idx := s.indexOf(productID)
	desired := 1
	if idx >= 0 {
		desired = s.items[idx].Amount + 1
	}

	if desired > stock.Amount {
		s.notifier.Notify(MsgOutOfStock)
		return fmt.Errorf("product %d: want %d, stock %d: %w", productID, desired, stock.Amount, ErrOutOfStock)
	}

	next := domain.CloneProducts(s.items)
	if idx >= 0 {
		next[idx].Amount = desired
	} else {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			s.notifier.Notify(MsgAddFailed)
			return fmt.Errorf("metadata lookup for product %d: %w", productID, ErrLookupFailed)
		}
		product.Amount = desired
		next = append(next, product)
	}

	if err := s.persist(ctx, next); err != nil {
		s.notifier.Notify(MsgAddFailed)
		return err
	}
	s.items = next
	s.record("add", productID, desired)

	return nil
}

// RemoveProduct removes the whole line item, not a single unit.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		s.notifier.Notify(MsgRemoveFailed)
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	next := domain.CloneProducts(s.items)
	next = append(next[:idx], next[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		s.notifier.Notify(MsgRemoveFailed)
		return err
	}
	s.items = next
	s.record("remove", productID, 0)

	return nil
}

// UpdateProductAmount sets the line item's amount to exactly amount.
func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 || amount <= 0 {
		s.notifier.Notify(MsgUpdateFailed)
		return fmt.Errorf("product %d, amount %d: %w", productID, amount, ErrInvalidRequest)
	}

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		s.notifier.Notify(MsgUpdateFailed)
		return fmt.Errorf("stock lookup for product %d: %w", productID, ErrLookupFailed)
	}

	if amount > stock.Amount {
		s.notifier.Notify(MsgOutOfStock)
		return fmt.Errorf("product %d: want %d, stock %d: %w", productID, amount, stock.Amount, ErrOutOfStock)
	}

	next := domain.CloneProducts(s.items)
	next[idx].Amount = amount

	if err := s.persist(ctx, next); err != nil {
		s.notifier.Notify(MsgUpdateFailed)
		return err
	}
	s.items = next
	s.record("update", productID, amount)

	return nil
}

// persist writes the full serialized cart. Called with the mutex held,
// before the in-memory commit, so a storage failure changes nothing.
func (s *Store) persist(ctx context.Context, items []domain.Product) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", ErrPersistFailed)
	}
	if err := s.storage.Write(ctx, s.key, string(blob)); err != nil {
		return fmt.Errorf("write cart blob: %w", ErrPersistFailed)
	}
	return nil
}

func (s *Store) record(op string, productID int64, amount int) {
	if s.recorder != nil {
		s.recorder.Record(op, productID, amount)
	}
}

func (s *Store) indexOf(productID int64) int {
	for i, item := range s.items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
