package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/kendall-kelly/print-shop-api/repository"
)

// Lifecycle drives orders through the status state machine:
//
//	Pending/Paid -> Accepted | Declined
//	Accepted -> On Process -> Completed
//	Accepted -> Completed
//
// Declined and Completed are terminal. Transitions are serialized.
type Lifecycle struct {
	mu            sync.Mutex
	orders        *repository.OrderStore
	ledger        *RevenueLedger
	assigner      *Assigner
	notifications *repository.NotificationLog
	audit         *repository.AuditLog
	prices        PriceTable
	documents     DocumentChecker
	now           func() time.Time
	log           *logger.Logger
}

// LifecycleDeps groups the collaborators of a Lifecycle
type LifecycleDeps struct {
	Orders        *repository.OrderStore
	Ledger        *RevenueLedger
	Assigner      *Assigner
	Notifications *repository.NotificationLog
	Audit         *repository.AuditLog
	Prices        PriceTable
	Documents     DocumentChecker
}

// NewLifecycle creates a lifecycle controller
func NewLifecycle(deps LifecycleDeps, log *logger.Logger) *Lifecycle {
	return &Lifecycle{
		orders:        deps.Orders,
		ledger:        deps.Ledger,
		assigner:      deps.Assigner,
		notifications: deps.Notifications,
		audit:         deps.Audit,
		prices:        deps.Prices,
		documents:     deps.Documents,
		now:           time.Now,
		log:           log.WithComponent("lifecycle"),
	}
}

// Exclusive runs fn while no transition is in flight
func (l *Lifecycle) Exclusive(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Submit places a new order. Guests get customer id -1. Orders carrying a
// payment receipt start as Paid, the rest as Pending. A resubmission of an
// identical order is absorbed: the stored order is returned with created=false.
func (l *Lifecycle) Submit(ctx context.Context, session models.Session, in SubmitOrderInput) (order models.Order, created bool, err error) {
	if session.User != nil && !session.User.IsCustomer() {
		return models.Order{}, false, &ForbiddenError{Message: "Only customers and guests can place orders"}
	}
	if err := validateInput(in); err != nil {
		return models.Order{}, false, err
	}

	name := strings.TrimSpace(in.CustomerName)
	customerID := models.GuestCustomerID
	if session.IsGuest() {
		if err := validateGuest(in); err != nil {
			return models.Order{}, false, err
		}
	} else {
		customerID = session.User.ID
		name = session.User.Name
	}

	if err := l.checkDocuments(ctx, in); err != nil {
		return models.Order{}, false, err
	}

	quote, err := QuotePrice(l.prices, in.Quote())
	if err != nil {
		return models.Order{}, false, err
	}

	status := models.StatusPending
	if in.ReceiptPath != "" || in.GcashReceiptPath != "" {
		status = models.StatusPaid
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	order = models.Order{
		ID:               l.orders.NewID(),
		CustomerID:       customerID,
		CustomerName:     name,
		Status:           status,
		TotalAmount:      quote.Total,
		PageCount:        in.PageCount,
		Copies:           in.Copies,
		IsColorPrinting:  in.IsColorPrinting,
		DocumentPath:     models.JoinDocuments(in.Documents),
		ReceiptPath:      in.ReceiptPath,
		GcashReceiptPath: in.GcashReceiptPath,
	}

	if !l.orders.Add(order) {
		existing, _ := l.orders.FindSubmission(order)
		return existing, false, nil
	}
	order, _ = l.orders.Get(order.ID)

	l.notify(order, fmt.Sprintf("Order Placed: Order ID %s, Status: %s, Date: %s",
		order.ID, order.Status, order.CreatedAt.Format(models.TimestampLayout)))
	l.audit.Record(session.Name(), fmt.Sprintf("Placed order %s", order.ID))
	l.log.Info("order placed", "order_id", order.ID, "customer_id", order.CustomerID, "status", order.Status, "total", order.TotalAmount.StringFixed(2))

	// No-op until the order is accepted
	l.assigner.AssignNext(order.ID)
	return order, true, nil
}

func validateGuest(in SubmitOrderInput) error {
	switch {
	case strings.TrimSpace(in.CustomerName) == "":
		return &ValidationError{Field: "customer_name", Message: "is required"}
	case !validEmail(in.Email):
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	case !validPhone(in.ContactNumber):
		return &ValidationError{Field: "contact_number", Message: "must be a 10 digit number"}
	case in.ReceiptPath == "":
		return &ValidationError{Field: "receipt_path", Message: "is required for guest orders"}
	case in.GcashReceiptPath == "":
		return &ValidationError{Field: "gcash_receipt_path", Message: "is required for guest orders"}
	}
	return nil
}

func (l *Lifecycle) checkDocuments(ctx context.Context, in SubmitOrderInput) error {
	check := func(field, ref string) error {
		if ref == "" {
			return nil
		}
		if strings.ContainsAny(ref, ",;") {
			return &ValidationError{Field: field, Message: fmt.Sprintf("reference %q must not contain commas or semicolons", ref)}
		}
		ok, err := l.documents.Exists(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", field, err)
		}
		if !ok {
			return &ValidationError{Field: field, Message: fmt.Sprintf("file %q is missing or unreadable", ref)}
		}
		return nil
	}

	for _, ref := range in.Documents {
		if err := check("documents", ref); err != nil {
			return err
		}
	}
	if err := check("receipt_path", in.ReceiptPath); err != nil {
		return err
	}
	return check("gcash_receipt_path", in.GcashReceiptPath)
}

// Review accepts or declines an order. Only admins may review. An accepted
// order is assigned to the next staff member, or gets its Pending revenue
// entry if it already has staff.
func (l *Lifecycle) Review(session models.Session, orderID string, accept bool, reason string) (models.Order, error) {
	if !session.HasRole(models.RoleAdmin) {
		return models.Order{}, &ForbiddenError{Message: "Only admins can review orders"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders.Get(orderID)
	if !ok {
		return models.Order{}, &NotFoundError{Resource: "order", ID: orderID}
	}
	if accept && order.Status == models.StatusAccepted {
		return models.Order{}, &StateError{Code: CodeAlreadyAccepted, Message: "Order is already accepted"}
	}
	if order.Status != models.StatusPending && order.Status != models.StatusPaid {
		return models.Order{}, &StateError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("Order with status %s cannot be reviewed", order.Status),
		}
	}

	status := models.StatusDeclined
	if accept {
		status = models.StatusAccepted
	}
	reason = strings.TrimSpace(reason)
	order, _ = l.orders.Update(orderID, func(o *models.Order) {
		o.Status = status
		o.AdminResponse = reason
		o.Reviewed = true
	})

	if accept {
		if order.IsAssigned() {
			if _, err := l.ledger.EnsurePending(order); err != nil {
				l.log.Error("failed to ensure pending revenue", "order_id", order.ID, "error", err)
			}
		} else {
			l.assigner.AssignNext(order.ID)
		}
		order, _ = l.orders.Get(orderID)
	}

	message := fmt.Sprintf("Order %s has been %s by the admin.", order.ID, strings.ToLower(status))
	if reason != "" {
		message += " Reason: " + reason
	}
	l.notify(order, l.dated(message))
	l.audit.Record(session.Name(), fmt.Sprintf("%s order %s", status, order.ID))
	l.log.Info("order reviewed", "order_id", order.ID, "status", status, "assigned_staff_id", order.AssignedStaffID)
	return order, nil
}

// Advance moves an accepted order forward. Only the staff member assigned to
// the order may advance it. Completing an order records its Completed
// revenue entry with the amount of its Pending entry.
func (l *Lifecycle) Advance(session models.Session, orderID, status string) (models.Order, error) {
	if !session.HasRole(models.RoleStaff) {
		return models.Order{}, &ForbiddenError{Message: "Only staff can update order progress"}
	}
	if status != models.StatusOnProcess && status != models.StatusCompleted {
		return models.Order{}, &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("must be one of: %s, %s", models.StatusOnProcess, models.StatusCompleted),
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders.Get(orderID)
	if !ok {
		return models.Order{}, &NotFoundError{Resource: "order", ID: orderID}
	}
	staffID := session.User.ID
	if order.AssignedStaffID != staffID {
		return models.Order{}, &ForbiddenError{Message: "Order is not assigned to you"}
	}
	if !canAdvance(order.Status, status) {
		return models.Order{}, &StateError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("Order cannot move from %s to %s", order.Status, status),
		}
	}

	order, _ = l.orders.Update(orderID, func(o *models.Order) { o.Status = status })

	if status == models.StatusCompleted {
		if _, err := l.ledger.EnsurePending(order); err != nil {
			l.log.Error("failed to ensure pending revenue", "order_id", order.ID, "error", err)
		}
		if _, err := l.ledger.RecordCompleted(order.ID, staffID); err != nil {
			l.log.Error("failed to record completed revenue", "order_id", order.ID, "error", err)
		}
	}

	l.notify(order, l.dated(fmt.Sprintf("Order %s status updated to %s.", order.ID, status)))
	l.audit.Record(session.Name(), fmt.Sprintf("Updated order %s to %s", order.ID, status))
	l.log.Info("order advanced", "order_id", order.ID, "status", status, "staff_id", staffID)
	return order, nil
}

func canAdvance(from, to string) bool {
	switch from {
	case models.StatusAccepted:
		return to == models.StatusOnProcess || to == models.StatusCompleted
	case models.StatusOnProcess:
		return to == models.StatusCompleted
	}
	return false
}

// SetStatus overwrites an order's status without state machine checks.
// Unknown ids are ignored.
func (l *Lifecycle) SetStatus(orderID, status string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orders.SetStatus(orderID, status)
}

// Reconcile assigns staff to accepted orders that have none and makes sure
// every assigned accepted order has a revenue entry. Failures are logged only.
func (l *Lifecycle) Reconcile() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reconcileLocked()
}

// AssignWaiting gives staff to accepted orders left unassigned while the
// rotation was empty
func (l *Lifecycle) AssignWaiting() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assignWaitingLocked()
}

func (l *Lifecycle) assignWaitingLocked() {
	for _, o := range l.orders.ByStatus(models.StatusAccepted) {
		if !o.IsAssigned() {
			l.assigner.AssignNext(o.ID)
		}
	}
}

func (l *Lifecycle) reconcileLocked() {
	for _, o := range l.orders.ByStatus(models.StatusAccepted) {
		if !o.IsAssigned() {
			l.assigner.AssignNext(o.ID)
			continue
		}
		written, err := l.ledger.EnsurePending(o)
		if err != nil {
			l.log.Error("failed to reconcile revenue entry", "order_id", o.ID, "error", err)
			continue
		}
		if written {
			l.log.Info("added missing pending revenue entry", "order_id", o.ID, "staff_id", o.AssignedStaffID)
		}
	}
}

// dated appends the Date marker customers' notification lists read
func (l *Lifecycle) dated(message string) string {
	return fmt.Sprintf("%s, %s%s", message, repository.DateMarker, l.now().Format(models.TimestampLayout))
}

func (l *Lifecycle) notify(o models.Order, message string) {
	if err := l.notifications.Add(o.CustomerID, o.CustomerName, message); err != nil {
		l.log.Error("failed to write order notification", "order_id", o.ID, "error", err)
	}
}
