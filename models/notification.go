package models

import "time"

// Notification is a message addressed to a customer about one of their orders
type Notification struct {
	CustomerID   int    `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Message      string `json:"message"`
	Date         string `json:"date"`
	HasReason    bool   `json:"has_reason"`
	Reason       string `json:"reason,omitempty"`
}

// AuditEntry is one line of the action logbook
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
}

// TimestampLayout is the timestamp format used across every data file
const TimestampLayout = "2006-01-02 15:04:05"
