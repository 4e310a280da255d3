package services

import (
	"fmt"
	"strings"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/kendall-kelly/print-shop-api/repository"
	"github.com/shopspring/decimal"
)

// RevenueLedger records per-order revenue and derives revenue totals.
//
// The totals read two different sources. GeneratedRevenue, PossibleRevenue and
// StaffPossibleRevenue sum order amounts by the status held in the order store.
// StaffGeneratedRevenue sums the ledger log itself. The two can disagree when
// the log and the order file drift apart.
type RevenueLedger struct {
	entries *repository.RevenueLog
	orders  *repository.OrderStore
	log     *logger.Logger
}

// NewRevenueLedger creates a ledger over the revenue log and order store
func NewRevenueLedger(entries *repository.RevenueLog, orders *repository.OrderStore, log *logger.Logger) *RevenueLedger {
	return &RevenueLedger{
		entries: entries,
		orders:  orders,
		log:     log.WithComponent("revenue"),
	}
}

// RecordPending appends a Pending entry for an order assigned to staffID
func (l *RevenueLedger) RecordPending(orderID string, staffID int, amount decimal.Decimal) error {
	_, err := l.entries.Append(models.RevenueEntry{
		OrderID: orderID,
		StaffID: staffID,
		Amount:  amount,
		Status:  models.RevenuePending,
	})
	return err
}

// EnsurePending appends a Pending entry for o unless the log already holds an
// entry for its id. It reports whether an entry was written.
func (l *RevenueLedger) EnsurePending(o models.Order) (bool, error) {
	has, err := l.entries.HasOrder(o.ID)
	if err != nil {
		return false, fmt.Errorf("failed to read revenue log: %w", err)
	}
	if has {
		return false, nil
	}
	if err := l.RecordPending(o.ID, o.AssignedStaffID, o.TotalAmount); err != nil {
		return false, err
	}
	return true, nil
}

// RecordCompleted appends a Completed entry carrying the amount of the latest
// entry for the same order and staff member
func (l *RevenueLedger) RecordCompleted(orderID string, staffID int) (models.RevenueEntry, error) {
	prior, found, err := l.entries.LatestFor(models.RevenueKey{OrderID: orderID, StaffID: staffID})
	if err != nil {
		return models.RevenueEntry{}, fmt.Errorf("failed to read revenue log: %w", err)
	}
	if !found {
		l.log.Warn("no prior revenue entry, recording zero amount", "order_id", orderID, "staff_id", staffID)
	}

	return l.entries.Append(models.RevenueEntry{
		OrderID: orderID,
		StaffID: staffID,
		Amount:  prior.Amount,
		Status:  models.RevenueCompleted,
	})
}

// Entries returns the raw ledger log
func (l *RevenueLedger) Entries() ([]models.RevenueEntry, error) {
	return l.entries.Entries()
}

// GeneratedRevenue sums the amounts of Completed orders in the order store
func (l *RevenueLedger) GeneratedRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.orders.All() {
		if strings.EqualFold(o.Status, models.StatusCompleted) {
			total = total.Add(o.TotalAmount)
		}
	}
	return total
}

// PossibleRevenue sums the amounts of Accepted and On Process orders in the order store
func (l *RevenueLedger) PossibleRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.orders.All() {
		if models.IsInProgressStatus(o.Status) {
			total = total.Add(o.TotalAmount)
		}
	}
	return total
}

// StaffGeneratedRevenue sums the ledger amounts whose latest entry for staffID is Completed
func (l *RevenueLedger) StaffGeneratedRevenue(staffID int) (decimal.Decimal, error) {
	latest, err := l.entries.Latest()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read revenue log: %w", err)
	}

	total := decimal.Zero
	for key, e := range latest {
		if key.StaffID == staffID && e.Status == models.RevenueCompleted {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// StaffPossibleRevenue sums Accepted and On Process orders assigned to staffID
func (l *RevenueLedger) StaffPossibleRevenue(staffID int) decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.orders.ByStaff(staffID) {
		if o.Status == models.StatusAccepted || o.Status == models.StatusOnProcess {
			total = total.Add(o.TotalAmount)
		}
	}
	return total
}

// Summary returns system-wide generated and possible revenue
func (l *RevenueLedger) Summary() models.RevenueSummary {
	return models.RevenueSummary{
		Generated: l.GeneratedRevenue(),
		Possible:  l.PossibleRevenue(),
	}
}

// StaffSummary returns generated and possible revenue for one staff member
func (l *RevenueLedger) StaffSummary(staffID int) (models.RevenueSummary, error) {
	generated, err := l.StaffGeneratedRevenue(staffID)
	if err != nil {
		return models.RevenueSummary{}, err
	}
	return models.RevenueSummary{
		Generated: generated,
		Possible:  l.StaffPossibleRevenue(staffID),
	}, nil
}
