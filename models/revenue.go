package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Revenue entry statuses
const (
	RevenuePending   = "Pending"
	RevenueCompleted = "Completed"
)

// RevenueEntry is one line of the append-only revenue ledger
type RevenueEntry struct {
	OrderID   string          `json:"order_id"`
	StaffID   int             `json:"staff_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// RevenueKey identifies the ledger history of one order for one staff member
type RevenueKey struct {
	OrderID string
	StaffID int
}

// Key returns the entry's ledger key
func (e RevenueEntry) Key() RevenueKey {
	return RevenueKey{OrderID: e.OrderID, StaffID: e.StaffID}
}

// RevenueSummary bundles generated and possible revenue
type RevenueSummary struct {
	Generated decimal.Decimal `json:"generated"`
	Possible  decimal.Decimal `json:"possible"`
}
