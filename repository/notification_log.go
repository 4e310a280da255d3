package repository

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
)

// Markers embedded in notification messages
const (
	DateMarker   = "Date: "
	ReasonMarker = "Reason:"
)

// NotificationLog is the append-only customer notification file.
// Lines are customerId,customerName,message; the message may contain commas.
type NotificationLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
	log  *logger.Logger
}

// NewNotificationLog creates a log for the file at path
func NewNotificationLog(path string, log *logger.Logger) *NotificationLog {
	return &NotificationLog{path: path, now: time.Now, log: log.WithComponent("notifications")}
}

// Add appends a timestamped message for a customer
func (l *NotificationLog) Add(customerID int, customerName, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	message = strings.NewReplacer("\n", " ", "\r", " ").Replace(message)
	line := fmt.Sprintf("%d,%s,%s - %s", customerID, cleanField(customerName), l.now().Format(models.TimestampLayout), message)
	if err := appendLine(l.path, line); err != nil {
		l.log.Error("failed to write order notification", "customer_id", customerID, "error", err)
		return err
	}
	return nil
}

// For returns the notifications addressed to a customer by id or by name
func (l *NotificationLog) For(customerID int, customerName string) ([]models.Notification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, _, err := readLines(l.path)
	if err != nil {
		return nil, err
	}

	out := make([]models.Notification, 0)
	for _, line := range lines {
		n, err := parseNotificationLine(line)
		if err != nil {
			continue
		}
		if n.CustomerID == customerID || (customerName != "" && n.CustomerName == customerName) {
			out = append(out, n)
		}
	}
	return out, nil
}

// parseNotificationLine splits on the first two commas and lifts the last
// "Date: " marker out of the message. Text after "Reason:" becomes the reason.
func parseNotificationLine(line string) (models.Notification, error) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) < 3 {
		return models.Notification{}, fmt.Errorf("expected 3 fields, found %d", len(parts))
	}
	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.Notification{}, fmt.Errorf("invalid customer id %q", parts[0])
	}

	message := strings.TrimSpace(parts[2])
	var date string
	if i := strings.LastIndex(message, DateMarker); i >= 0 {
		date = strings.TrimSpace(message[i+len(DateMarker):])
		message = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(message[:i]), ","))
	}

	n := models.Notification{
		CustomerID:   id,
		CustomerName: strings.TrimSpace(parts[1]),
		Message:      message,
		Date:         date,
	}
	if i := strings.Index(message, ReasonMarker); i >= 0 {
		n.HasReason = true
		n.Reason = strings.TrimSpace(message[i+len(ReasonMarker):])
	}
	return n, nil
}
