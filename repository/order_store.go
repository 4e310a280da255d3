package repository

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
)

const (
	orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	orderIDLength   = 6
)

// OrderStore is the set of orders backed by the order file. Every mutation
// rewrites the whole file.
type OrderStore struct {
	mu           sync.RWMutex
	path         string
	orders       []models.Order
	maxNumericID int
	now          func() time.Time
	log          *logger.Logger
}

// NewOrderStore creates an empty store for the file at path. Call Load before use.
func NewOrderStore(path string, log *logger.Logger) *OrderStore {
	return &OrderStore{
		path: path,
		now:  time.Now,
		log:  log.WithComponent("orders"),
	}
}

// Load parses the order file, replacing the in-memory set. Short lines are
// skipped with a warning and the first occurrence of a duplicated id wins.
func (s *OrderStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

// Reload re-reads the file. Unsaved in-memory changes are discarded.
func (s *OrderStore) Reload() {
	s.Load()
}

func (s *OrderStore) loadLocked() {
	s.maxNumericID = 0
	lines, exists, err := readLines(s.path)
	if err != nil {
		s.log.Error("failed to load orders", "path", s.path, "error", err)
		return
	}
	if !exists {
		if err := ensureFile(s.path); err != nil {
			s.log.Error("failed to create order file", "path", s.path, "error", err)
		}
		s.orders = nil
		return
	}

	now := s.now()
	seen := make(map[string]bool)
	orders := make([]models.Order, 0, len(lines))
	for n, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isComment(trimmed) || strings.HasPrefix(trimmed, "OrderID:") {
			continue
		}
		o, err := parseOrderLine(trimmed, now)
		if err != nil {
			s.log.Warn("skipped invalid order line", "line", n+1, "reason", err.Error())
			continue
		}
		if seen[o.ID] {
			s.log.Warn("skipped order with duplicate id", "line", n+1, "order_id", o.ID)
			continue
		}
		seen[o.ID] = true
		orders = append(orders, o)
		if id, err := strconv.Atoi(o.ID); err == nil && id > s.maxNumericID {
			s.maxNumericID = id
		}
	}
	s.orders = orders
}

// Save rewrites the order file from memory
func (s *OrderStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

func (s *OrderStore) saveLocked() error {
	lines := make([]string, 0, len(s.orders))
	for _, o := range s.orders {
		lines = append(lines, formatOrderLine(o))
	}
	if err := writeLines(s.path, lines); err != nil {
		s.log.Error("failed to save orders", "path", s.path, "error", err)
		return err
	}
	return nil
}

// Add stores o unless an order with the same submission content already
// exists, in which case it is dropped and false is returned. Text columns are
// stored as they will read back from the file.
func (s *OrderStore) Add(o models.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o = normalizeOrder(o)

	for _, existing := range s.orders {
		if existing.SameSubmission(o) {
			s.log.Info("duplicate order detected, not adding", "order_id", o.ID, "existing_id", existing.ID, "customer", o.CustomerName)
			return false
		}
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	s.orders = append(s.orders, o)
	_ = s.saveLocked()
	return true
}

// FindSubmission returns the stored order carrying the same submission content as o
func (s *OrderStore) FindSubmission(o models.Order) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o = normalizeOrder(o)

	for _, existing := range s.orders {
		if existing.SameSubmission(o) {
			return existing, true
		}
	}
	return models.Order{}, false
}

// SetStatus changes an order's status and rewrites the file. Unknown ids are ignored.
func (s *OrderStore) SetStatus(id, status string) bool {
	_, ok := s.Update(id, func(o *models.Order) { o.Status = status })
	return ok
}

// Update applies fn to the order with id and rewrites the file
func (s *OrderStore) Update(id string, fn func(o *models.Order)) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Order{}, false
	}
	fn(&s.orders[i])
	s.orders[i] = normalizeOrder(s.orders[i])
	_ = s.saveLocked()
	return s.orders[i], true
}

func (s *OrderStore) indexLocked(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the order with id
func (s *OrderStore) Get(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.orders[i], true
	}
	return models.Order{}, false
}

// All returns a copy of every order in file order
func (s *OrderStore) All() []models.Order {
	return s.filter(func(models.Order) bool { return true })
}

// ByStatus returns orders whose status equals status
func (s *OrderStore) ByStatus(status string) []models.Order {
	return s.filter(func(o models.Order) bool { return o.Status == status })
}

// ByCustomer returns orders placed by customerID
func (s *OrderStore) ByCustomer(customerID int) []models.Order {
	return s.filter(func(o models.Order) bool { return o.CustomerID == customerID })
}

// ByStaff returns orders assigned to staffID
func (s *OrderStore) ByStaff(staffID int) []models.Order {
	return s.filter(func(o models.Order) bool { return o.AssignedStaffID == staffID })
}

func (s *OrderStore) filter(keep func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of stored orders
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// MaxNumericID returns the largest numeric order id seen while loading
func (s *OrderStore) MaxNumericID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxNumericID
}

// NewID returns a random 6 character alphanumeric id not used by any stored order
func (s *OrderStore) NewID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := RandomOrderID()
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

// RandomOrderID returns a 6 character alphanumeric id
func RandomOrderID() string {
	var b strings.Builder
	b.Grow(orderIDLength)
	for i := 0; i < orderIDLength; i++ {
		b.WriteByte(orderIDAlphabet[rand.IntN(len(orderIDAlphabet))])
	}
	return b.String()
}
