package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
)

// AuditLog is the append-only logbook of actions, one "timestamp - actor: action" per line
type AuditLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
	log  *logger.Logger
}

// NewAuditLog creates a logbook for the file at path
func NewAuditLog(path string, log *logger.Logger) *AuditLog {
	return &AuditLog{path: path, now: time.Now, log: log.WithComponent("audit")}
}

// Record appends an action performed by actor
func (a *AuditLog) Record(actor, action string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	line := fmt.Sprintf("%s - %s: %s", a.now().Format(models.TimestampLayout), actor, action)
	if err := appendLine(a.path, strings.NewReplacer("\n", " ", "\r", " ").Replace(line)); err != nil {
		a.log.Error("failed to write to logbook", "error", err)
	}
}

// Entries returns the logbook in file order
func (a *AuditLog) Entries() ([]models.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	lines, _, err := readLines(a.path)
	if err != nil {
		return nil, err
	}

	var out []models.AuditEntry
	for _, line := range lines {
		head, rest, ok := strings.Cut(line, " - ")
		if !ok {
			continue
		}
		actor, action, ok := strings.Cut(rest, ": ")
		if !ok {
			continue
		}
		ts, err := time.ParseInLocation(models.TimestampLayout, head, time.Local)
		if err != nil {
			continue
		}
		out = append(out, models.AuditEntry{Timestamp: ts, Actor: actor, Action: action})
	}
	return out, nil
}
