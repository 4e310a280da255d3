package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kendall-kelly/print-shop-api/config"
	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/kendall-kelly/print-shop-api/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture is a set of stores over a temporary data directory
type fixture struct {
	dir           string
	paths         config.Paths
	orders        *repository.OrderStore
	revenue       *repository.RevenueLog
	ledger        *RevenueLedger
	assigner      *Assigner
	notifications *repository.NotificationLog
	audit         *repository.AuditLog
	pricing       *repository.PricingStore
	documents     *LocalDocumentStore
	lifecycle     *Lifecycle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	paths := config.PathsFor(dir)
	log := logger.Discard()

	f := &fixture{dir: dir, paths: paths}
	f.orders = repository.NewOrderStore(paths.Orders, log)
	f.orders.Load()
	f.revenue = repository.NewRevenueLog(paths.Revenue, log)
	f.ledger = NewRevenueLedger(f.revenue, f.orders, log)
	f.audit = repository.NewAuditLog(paths.Logbook, log)
	f.notifications = repository.NewNotificationLog(paths.Notifications, log)
	f.assigner = NewAssigner(f.orders, f.ledger, f.audit, log)
	f.pricing = repository.NewPricingStore(paths.Pricing, log)
	f.pricing.Load()
	f.documents = NewLocalDocumentStore(filepath.Join(dir, "uploads"))
	f.lifecycle = NewLifecycle(LifecycleDeps{
		Orders:        f.orders,
		Ledger:        f.ledger,
		Assigner:      f.assigner,
		Notifications: f.notifications,
		Audit:         f.audit,
		Prices:        f.pricing,
		Documents:     f.documents,
	}, log)
	return f
}

// addDocument creates an uploaded file and returns its reference
func (f *fixture) addDocument(t *testing.T, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.documents.Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.documents.Dir(), name), []byte("content of "+name), 0o644))
	return name
}

// addAccepted stores an accepted, unassigned order directly
func (f *fixture) addAccepted(t *testing.T, id string, amount int64) models.Order {
	t.Helper()
	o := models.Order{
		ID:           id,
		CustomerID:   7,
		CustomerName: "Alice",
		Status:       models.StatusAccepted,
		TotalAmount:  decimal.NewFromInt(amount),
		PageCount:    1,
		Copies:       1,
		DocumentPath: id + ".pdf",
	}
	require.True(t, f.orders.Add(o))
	return o
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		GoEnv:           "test",
		DataDir:         dir,
		JWTSecret:       "test-secret",
		JWTIssuer:       "print-shop-api",
		JWTAudience:     "print-shop-clients",
		TokenTTL:        time.Hour,
		RefreshInterval: time.Second,
		CredentialMode:  config.CredentialModePlaintext,
		DocumentStore:   config.DocumentStoreLocal,
	}
}

func adminSession() models.Session {
	return models.NewSession(models.User{ID: 1, Name: "Admin", Username: "admin1", Role: models.RoleAdmin, Active: true})
}

func staffSession(id int) models.Session {
	return models.NewSession(models.User{ID: id, Name: "Staff", Username: "staff", Role: models.RoleStaff, Active: true})
}

func customerSession(id int, name string) models.Session {
	return models.NewSession(models.User{ID: id, Name: name, Username: name, Role: models.RoleCustomer, Active: true})
}
