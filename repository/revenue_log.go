package repository

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/shopspring/decimal"
)

// RevenueLog is the append-only revenue ledger file. Entries are never rewritten;
// a status change appends a new line.
type RevenueLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
	log  *logger.Logger
}

// NewRevenueLog creates a ledger for the file at path
func NewRevenueLog(path string, log *logger.Logger) *RevenueLog {
	return &RevenueLog{
		path: path,
		now:  time.Now,
		log:  log.WithComponent("revenue"),
	}
}

// Append writes one entry. A zero timestamp is stamped with now.
func (l *RevenueLog) Append(e models.RevenueEntry) (models.RevenueEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	if err := appendLine(l.path, formatRevenueLine(e)); err != nil {
		l.log.Error("failed to write revenue entry", "order_id", e.OrderID, "error", err)
		return e, err
	}
	return e, nil
}

// Entries returns every entry in file order
func (l *RevenueLog) Entries() ([]models.RevenueEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entriesLocked()
}

func (l *RevenueLog) entriesLocked() ([]models.RevenueEntry, error) {
	lines, _, err := readLines(l.path)
	if err != nil {
		return nil, err
	}

	entries := make([]models.RevenueEntry, 0, len(lines))
	for n, line := range lines {
		if isComment(line) {
			continue
		}
		e, err := parseRevenueLine(line)
		if err != nil {
			l.log.Debug("skipped revenue line", "line", n+1, "reason", err.Error())
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Latest folds the log into the most recent entry per (order, staff) pair
func (l *RevenueLog) Latest() (map[models.RevenueKey]models.RevenueEntry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	latest := make(map[models.RevenueKey]models.RevenueEntry, len(entries))
	for _, e := range entries {
		latest[e.Key()] = e
	}
	return latest, nil
}

// LatestFor returns the most recent entry for key
func (l *RevenueLog) LatestFor(key models.RevenueKey) (models.RevenueEntry, bool, error) {
	entries, err := l.Entries()
	if err != nil {
		return models.RevenueEntry{}, false, err
	}
	var (
		found models.RevenueEntry
		ok    bool
	)
	for _, e := range entries {
		if e.Key() == key {
			found, ok = e, true
		}
	}
	return found, ok, nil
}

// HasOrder reports whether any entry exists for orderID
func (l *RevenueLog) HasOrder(orderID string) (bool, error) {
	entries, err := l.Entries()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

// parseRevenueLine reads orderId,staffId,amount,status,timestamp
func parseRevenueLine(line string) (models.RevenueEntry, error) {
	parts := splitTrimmed(line)
	if len(parts) < 4 {
		return models.RevenueEntry{}, fmt.Errorf("expected at least 4 fields, found %d", len(parts))
	}
	staffID, err := strconv.Atoi(parts[1])
	if err != nil {
		return models.RevenueEntry{}, fmt.Errorf("invalid staff id %q", parts[1])
	}
	amount, err := decimal.NewFromString(parts[2])
	if err != nil {
		return models.RevenueEntry{}, fmt.Errorf("invalid amount %q", parts[2])
	}

	e := models.RevenueEntry{
		OrderID: parts[0],
		StaffID: staffID,
		Amount:  amount,
		Status:  parts[3],
	}
	if len(parts) > 4 {
		if ts, err := time.ParseInLocation(models.TimestampLayout, parts[4], time.Local); err == nil {
			e.Timestamp = ts
		}
	}
	return e, nil
}

func formatRevenueLine(e models.RevenueEntry) string {
	return strings.Join([]string{
		cleanField(e.OrderID),
		strconv.Itoa(e.StaffID),
		e.Amount.StringFixed(2),
		cleanField(e.Status),
		e.Timestamp.Format(models.TimestampLayout),
	}, ",")
}
