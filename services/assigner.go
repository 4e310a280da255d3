package services

import (
	"fmt"
	"sync"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/kendall-kelly/print-shop-api/repository"
)

// Assigner hands accepted orders to staff in strict rotation. The head of the
// queue takes the next order and moves to the tail. Workload and order value
// are not considered.
type Assigner struct {
	mu     sync.Mutex
	queue  []int
	orders *repository.OrderStore
	ledger *RevenueLedger
	audit  *repository.AuditLog
	log    *logger.Logger
}

// NewAssigner creates an assigner with an empty rotation
func NewAssigner(orders *repository.OrderStore, ledger *RevenueLedger, audit *repository.AuditLog, log *logger.Logger) *Assigner {
	return &Assigner{
		orders: orders,
		ledger: ledger,
		audit:  audit,
		log:    log.WithComponent("assigner"),
	}
}

// Seed replaces the rotation with staffIDs in order
func (a *Assigner) Seed(staffIDs []int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append([]int(nil), staffIDs...)
}

// Sync reconciles the rotation with the current staff list: positions of
// staff still present are kept, removed staff are dropped and new staff join
// at the tail.
func (a *Assigner) Sync(staffIDs []int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := make(map[int]bool, len(staffIDs))
	for _, id := range staffIDs {
		current[id] = true
	}

	queued := make(map[int]bool, len(a.queue))
	kept := a.queue[:0]
	for _, id := range a.queue {
		if current[id] && !queued[id] {
			kept = append(kept, id)
			queued[id] = true
		}
	}
	for _, id := range staffIDs {
		if !queued[id] {
			kept = append(kept, id)
			queued[id] = true
		}
	}
	a.queue = kept
}

// Enqueue adds a staff member at the tail of the rotation
func (a *Assigner) Enqueue(staffID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, staffID)
}

// Queue returns a snapshot of the rotation, head first
func (a *Assigner) Queue() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.queue...)
}

// AssignNext gives an accepted, unassigned order to the staff member at the
// head of the rotation. Any other order is left untouched. It returns the
// chosen staff id and whether an assignment happened.
func (a *Assigner) AssignNext(orderID string) (int, bool) {
	order, ok := a.orders.Get(orderID)
	if !ok || order.Status != models.StatusAccepted || order.IsAssigned() {
		return 0, false
	}

	a.mu.Lock()
	if len(a.queue) == 0 {
		a.mu.Unlock()
		a.log.Warn("no staff available for assignment", "order_id", orderID)
		return 0, false
	}
	staffID := a.queue[0]
	a.queue = append(a.queue[1:], staffID)
	a.mu.Unlock()

	order, _ = a.orders.Update(orderID, func(o *models.Order) {
		o.AssignedStaffID = staffID
	})

	if err := a.ledger.RecordPending(order.ID, staffID, order.TotalAmount); err != nil {
		a.log.Error("failed to record pending revenue", "order_id", order.ID, "staff_id", staffID, "error", err)
	}

	a.log.Info("assigned order", "order_id", order.ID, "staff_id", staffID)
	a.audit.Record("System", fmt.Sprintf("Assigned order %s to staff %d", order.ID, staffID))
	return staffID, true
}
