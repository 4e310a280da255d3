package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/print-shop-api/config"
	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/kendall-kelly/print-shop-api/repository"
	"github.com/shopspring/decimal"
)

// Shop owns every store of one print shop and exposes the operations the
// API performs on them
type Shop struct {
	Pricing       *repository.PricingStore
	Users         *repository.UserDirectory
	Orders        *repository.OrderStore
	Notifications *repository.NotificationLog
	Audit         *repository.AuditLog
	Revenue       *RevenueLedger
	Assigner      *Assigner
	Lifecycle     *Lifecycle
	Tokens        *TokenService
	Documents     DocumentStore

	credentials     CredentialManager
	refreshInterval time.Duration
	log             *logger.Logger
}

// LoginResult is a successful login
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// NewShop wires the stores for the data files under cfg.DataDir. Call Load before use.
func NewShop(cfg *config.Config, documents DocumentStore, log *logger.Logger) *Shop {
	paths := cfg.Paths()

	var credentials CredentialManager = PlaintextVerifier{}
	if cfg.CredentialMode == config.CredentialModeBcrypt {
		credentials = BcryptVerifier{}
	}

	orders := repository.NewOrderStore(paths.Orders, log)
	pricing := repository.NewPricingStore(paths.Pricing, log)
	audit := repository.NewAuditLog(paths.Logbook, log)
	notifications := repository.NewNotificationLog(paths.Notifications, log)
	ledger := NewRevenueLedger(repository.NewRevenueLog(paths.Revenue, log), orders, log)
	assigner := NewAssigner(orders, ledger, audit, log)

	return &Shop{
		Pricing: pricing,
		Users: repository.NewUserDirectory(repository.UserFiles{
			Admins:    paths.Admins,
			Staff:     paths.Staff,
			Customers: paths.Customers,
		}, credentials, log),
		Orders:        orders,
		Notifications: notifications,
		Audit:         audit,
		Revenue:       ledger,
		Assigner:      assigner,
		Lifecycle: NewLifecycle(LifecycleDeps{
			Orders:        orders,
			Ledger:        ledger,
			Assigner:      assigner,
			Notifications: notifications,
			Audit:         audit,
			Prices:        pricing,
			Documents:     documents,
		}, log),
		Tokens:          NewTokenService(cfg),
		Documents:       documents,
		credentials:     credentials,
		refreshInterval: cfg.RefreshInterval,
		log:             log.WithComponent("shop"),
	}
}

// Load reads every data file, seeds the staff rotation and runs the startup
// reconciliation pass
func (s *Shop) Load() {
	s.Users.Load()
	s.Orders.Load()
	s.Assigner.Seed(s.Users.StaffIDs())
	s.Lifecycle.Reconcile()
	s.Pricing.Load()

	s.log.Info("shop loaded",
		"users", s.Users.Size(),
		"orders", s.Orders.Len(),
		"staff_rotation", len(s.Assigner.Queue()),
	)
}

// Refresh re-reads orders and staff to pick up changes written by other
// processes, then assigns accepted orders still waiting for staff
func (s *Shop) Refresh() {
	s.Lifecycle.Exclusive(func() {
		s.Orders.Reload()
		s.Users.LoadStaff()
		s.Assigner.Sync(s.Users.StaffIDs())
		s.Lifecycle.assignWaitingLocked()
	})
	s.log.Debug("refreshed", "orders", s.Orders.Len())
}

// Run refreshes on the configured interval until ctx is done
func (s *Shop) Run(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}

// Login checks credentials and issues an access token
func (s *Shop) Login(username, password string) (LoginResult, error) {
	user, ok := s.Users.ValidateLogin(strings.TrimSpace(username), password)
	if !ok {
		return LoginResult{}, &AuthenticationError{Message: "Invalid username or password, or account not yet approved"}
	}

	token, expiresAt, err := s.Tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}
	s.Audit.Record(user.Name, "Logged in")
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Resolve returns the session for an authenticated user id. Users that were
// removed or deactivated since the token was issued resolve to an error.
func (s *Shop) Resolve(userID string) (models.Session, error) {
	id, err := strconv.Atoi(userID)
	if err != nil {
		return models.Session{}, &NotFoundError{Resource: "user", ID: userID}
	}
	user, ok := s.Users.FindByID(id)
	if !ok || !user.Active {
		return models.Session{}, &NotFoundError{Resource: "user", ID: userID}
	}
	return models.NewSession(user), nil
}

// Register creates an inactive customer awaiting admin approval
func (s *Shop) Register(in RegistrationInput) (models.User, error) {
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}

	password, err := s.credentials.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to prepare password: %w", err)
	}

	user, err := s.Users.Register(models.User{
		Name:          strings.TrimSpace(in.Name),
		StudentID:     strings.TrimSpace(in.StudentID),
		Email:         strings.TrimSpace(in.Email),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Course:        strings.TrimSpace(in.Course),
		Section:       strings.TrimSpace(in.Section),
		Username:      strings.TrimSpace(in.Username),
		Password:      password,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, &DuplicateError{Resource: "username", Key: in.Username}
	}
	if err != nil {
		return models.User{}, err
	}

	s.log.Info("customer registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// PendingCustomers lists customers awaiting approval
func (s *Shop) PendingCustomers(session models.Session) ([]models.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.Users.Pending(), nil
}

// ApproveCustomer activates a pending customer
func (s *Shop) ApproveCustomer(session models.Session, id int) (models.User, error) {
	if err := requireAdmin(session); err != nil {
		return models.User{}, err
	}

	user, err := s.Users.Approve(id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, &NotFoundError{Resource: "pending user", ID: strconv.Itoa(id)}
	}
	if err != nil {
		return models.User{}, err
	}

	s.Audit.Record(session.Name(), "Approved customer "+user.Username)
	return user, nil
}

// DeclineCustomer removes a pending customer
func (s *Shop) DeclineCustomer(session models.Session, id int) (models.User, error) {
	if err := requireAdmin(session); err != nil {
		return models.User{}, err
	}

	user, ok := s.Users.FindByID(id)
	if !ok || !user.IsCustomer() || user.Active {
		return models.User{}, &NotFoundError{Resource: "pending user", ID: strconv.Itoa(id)}
	}
	if _, err := s.Users.Remove(id); err != nil {
		return models.User{}, err
	}

	s.Audit.Record(session.Name(), "Declined customer "+user.Username)
	return user, nil
}

// CreateStaff adds an active staff member and puts them at the tail of the rotation
func (s *Shop) CreateStaff(session models.Session, in StaffInput) (models.User, error) {
	if err := requireAdmin(session); err != nil {
		return models.User{}, err
	}
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}

	password, err := s.credentials.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to prepare password: %w", err)
	}

	staff, err := s.Users.CreateStaff(models.User{
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Username:      strings.TrimSpace(in.Username),
		Password:      password,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, &DuplicateError{Resource: "username", Key: in.Username}
	}
	if err != nil {
		return models.User{}, err
	}

	s.Assigner.Enqueue(staff.ID)
	s.Lifecycle.AssignWaiting()
	s.Audit.Record(session.Name(), fmt.Sprintf("Created staff %s (id %d)", staff.Username, staff.ID))
	return staff, nil
}

// UpdateProfile edits the acting user's own record
func (s *Shop) UpdateProfile(session models.Session, in ProfileInput) (models.User, error) {
	if session.IsGuest() {
		return models.User{}, &ForbiddenError{Message: "Sign in to edit your profile"}
	}
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}

	user, ok := s.Users.FindByID(session.User.ID)
	if !ok {
		return models.User{}, &NotFoundError{Resource: "user", ID: strconv.Itoa(session.User.ID)}
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&user.Name, in.Name)
	set(&user.Email, in.Email)
	set(&user.ContactNumber, in.ContactNumber)
	set(&user.Username, in.Username)
	if user.IsCustomer() {
		set(&user.StudentID, in.StudentID)
		set(&user.Course, in.Course)
		set(&user.Section, in.Section)
	}

	updated, err := s.Users.Update(user)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, &DuplicateError{Resource: "username", Key: user.Username}
	}
	if err != nil {
		return models.User{}, err
	}

	s.Audit.Record(updated.Name, "Updated profile")
	return updated, nil
}

// ChangePassword replaces the acting user's password after checking the current one
func (s *Shop) ChangePassword(session models.Session, in PasswordChangeInput) error {
	if session.IsGuest() {
		return &ForbiddenError{Message: "Sign in to change your password"}
	}
	if err := validateInput(in); err != nil {
		return err
	}

	user, ok := s.Users.FindByID(session.User.ID)
	if !ok {
		return &NotFoundError{Resource: "user", ID: strconv.Itoa(session.User.ID)}
	}
	if !s.credentials.Verify(user.Password, in.CurrentPassword) {
		return &ValidationError{Field: "current_password", Message: "is incorrect"}
	}

	password, err := s.credentials.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to prepare password: %w", err)
	}
	user.Password = password
	if _, err := s.Users.Update(user); err != nil {
		return err
	}

	s.Audit.Record(user.Name, "Changed password")
	return nil
}

// ListOrders returns the orders visible to the acting user. Admins see every
// order, staff the orders assigned to them and customers their own.
func (s *Shop) ListOrders(session models.Session, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	switch {
	case session.HasRole(models.RoleAdmin):
		orders = s.Orders.All()
		if filter.CustomerID != 0 {
			orders = s.Orders.ByCustomer(filter.CustomerID)
		}
		if filter.StaffID != 0 {
			orders = keepOrders(orders, func(o models.Order) bool { return o.AssignedStaffID == filter.StaffID })
		}
	case session.HasRole(models.RoleStaff):
		orders = s.Orders.ByStaff(session.User.ID)
	case session.HasRole(models.RoleCustomer):
		orders = s.Orders.ByCustomer(session.User.ID)
	default:
		return nil, &ForbiddenError{Message: "Sign in to list orders"}
	}

	if filter.Status != "" {
		orders = keepOrders(orders, func(o models.Order) bool { return strings.EqualFold(o.Status, filter.Status) })
	}
	return orders, nil
}

// AcceptedAssignedOrders lists accepted orders that already have staff
func (s *Shop) AcceptedAssignedOrders(session models.Session) ([]models.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return keepOrders(s.Orders.ByStatus(models.StatusAccepted), models.Order.IsAssigned), nil
}

// GetOrder returns one order if the acting user may see it
func (s *Shop) GetOrder(session models.Session, id string) (models.Order, error) {
	order, ok := s.Orders.Get(id)
	if !ok {
		return models.Order{}, &NotFoundError{Resource: "order", ID: id}
	}

	switch {
	case session.HasRole(models.RoleAdmin):
	case session.HasRole(models.RoleStaff) && order.AssignedStaffID == session.User.ID:
	case session.HasRole(models.RoleCustomer) && order.CustomerID == session.User.ID:
	default:
		// Hide the existence of orders the user may not see
		return models.Order{}, &NotFoundError{Resource: "order", ID: id}
	}
	return order, nil
}

// DocumentURLs returns download locations for every file attached to an order
func (s *Shop) DocumentURLs(ctx context.Context, session models.Session, id string) (map[string]string, error) {
	order, err := s.GetOrder(session, id)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string)
	for _, ref := range order.References() {
		url, err := s.Documents.URL(ctx, ref)
		if err != nil {
			return nil, err
		}
		urls[ref] = url
	}
	return urls, nil
}

// IsStaffAssigned reports whether any order is assigned to staffID
func (s *Shop) IsStaffAssigned(staffID int) bool {
	return len(s.Orders.ByStaff(staffID)) > 0
}

// Prices returns the price table in file order
func (s *Shop) Prices() []models.PricingEntry {
	return s.Pricing.Entries()
}

// Quote prices a print job with the current table
func (s *Shop) Quote(req QuoteRequest) (Quote, error) {
	return QuotePrice(s.Pricing, req)
}

// SetPrice updates one of the recognised pricing keys
func (s *Shop) SetPrice(session models.Session, key string, price decimal.Decimal) (models.PricingEntry, error) {
	if err := requireAdmin(session); err != nil {
		return models.PricingEntry{}, err
	}
	if !models.IsPricingKey(key) {
		return models.PricingEntry{}, &ValidationError{Field: "key", Message: fmt.Sprintf("%q is not a pricing key", key)}
	}
	if err := s.Pricing.Set(key, price); err != nil {
		return models.PricingEntry{}, err
	}

	s.Audit.Record(session.Name(), fmt.Sprintf("Set price %s to %s", key, price.StringFixed(2)))
	return models.PricingEntry{Key: key, Price: price}, nil
}

// RevenueSummary returns system-wide revenue
func (s *Shop) RevenueSummary(session models.Session) (models.RevenueSummary, error) {
	if err := requireAdmin(session); err != nil {
		return models.RevenueSummary{}, err
	}
	return s.Revenue.Summary(), nil
}

// StaffRevenue returns revenue for one staff member. Staff may only see their own.
func (s *Shop) StaffRevenue(session models.Session, staffID int) (models.RevenueSummary, error) {
	switch {
	case session.HasRole(models.RoleAdmin):
	case session.HasRole(models.RoleStaff) && session.User.ID == staffID:
	default:
		return models.RevenueSummary{}, &ForbiddenError{Message: "You can only view your own revenue"}
	}

	if u, ok := s.Users.FindByID(staffID); !ok || !u.IsStaff() {
		return models.RevenueSummary{}, &NotFoundError{Resource: "staff", ID: strconv.Itoa(staffID)}
	}
	return s.Revenue.StaffSummary(staffID)
}

// CustomerNotifications returns the notifications addressed to the acting customer
func (s *Shop) CustomerNotifications(session models.Session) ([]models.Notification, error) {
	if !session.HasRole(models.RoleCustomer) {
		return nil, &ForbiddenError{Message: "Only customers have order notifications"}
	}
	return s.Notifications.For(session.User.ID, session.User.Name)
}

func requireAdmin(session models.Session) error {
	if !session.HasRole(models.RoleAdmin) {
		return &ForbiddenError{Message: "Admin access required"}
	}
	return nil
}

func keepOrders(orders []models.Order, keep func(models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
