package repository

import (
	"sort"
	"strings"
	"sync"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/shopspring/decimal"
)

const pricingHeader = "# PricingConfig.txt"

// PricingStore is the key/value price table backed by a key=value config file
type PricingStore struct {
	mu     sync.RWMutex
	path   string
	prices map[string]decimal.Decimal
	log    *logger.Logger
}

// NewPricingStore creates a store for the config file at path. Call Load before use.
func NewPricingStore(path string, log *logger.Logger) *PricingStore {
	return &PricingStore{
		path:   path,
		prices: models.DefaultPrices(),
		log:    log.WithComponent("pricing"),
	}
}

// Load reads the config file. A missing file is replaced by the defaults,
// and recognised keys absent from the file keep their default value.
func (s *PricingStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices = models.DefaultPrices()

	lines, exists, err := readLines(s.path)
	if err != nil {
		s.log.Error("failed to read pricing, using defaults", "path", s.path, "error", err)
		return
	}
	if !exists {
		s.log.Info("pricing file missing, writing defaults", "path", s.path)
		if err := s.saveLocked(); err != nil {
			s.log.Error("failed to save default pricing", "path", s.path, "error", err)
		}
		return
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		price, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			s.log.Warn("skipped invalid price", "key", key, "value", parts[1])
			continue
		}
		s.prices[key] = price
	}
}

// Get returns the price for key, zero when the key is unknown
func (s *PricingStore) Get(key string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prices[key]
}

// Set updates key and rewrites the whole file
func (s *PricingStore) Set(key string, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices[key] = price
	if err := s.saveLocked(); err != nil {
		s.log.Error("failed to save pricing", "path", s.path, "error", err)
		return err
	}
	return nil
}

// All returns a copy of the price table
func (s *PricingStore) All() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]decimal.Decimal, len(s.prices))
	for k, v := range s.prices {
		out[k] = v
	}
	return out
}

// Entries returns the table in file order
func (s *PricingStore) Entries() []models.PricingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.PricingEntry, 0, len(s.prices))
	for _, key := range s.orderedKeysLocked() {
		entries = append(entries, models.PricingEntry{Key: key, Price: s.prices[key]})
	}
	return entries
}

func (s *PricingStore) orderedKeysLocked() []string {
	keys := append([]string(nil), models.PricingKeys...)
	var extra []string
	for k := range s.prices {
		if !models.IsPricingKey(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func (s *PricingStore) saveLocked() error {
	lines := []string{pricingHeader}
	for _, key := range s.orderedKeysLocked() {
		lines = append(lines, key+"="+s.prices[key].StringFixed(2))
	}
	return writeLines(s.path, lines)
}
