package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses forming the lifecycle state machine
const (
	StatusPending   = "Pending"
	StatusPaid      = "Paid"
	StatusAccepted  = "Accepted"
	StatusDeclined  = "Declined"
	StatusOnProcess = "On Process"
	StatusCompleted = "Completed"
)

// GuestCustomerID marks orders placed without an account
const GuestCustomerID = -1

// DocumentSeparator joins multiple document references in DocumentPath
const DocumentSeparator = ";"

// Order represents a single print job request
type Order struct {
	ID               string          `json:"id"`
	CustomerID       int             `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	Status           string          `json:"status"`
	AssignedStaffID  int             `json:"assigned_staff_id"` // 0 until assigned
	CreatedAt        time.Time       `json:"created_at"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PageCount        int             `json:"page_count"`
	Copies           int             `json:"copies"`
	IsColorPrinting  bool            `json:"is_color_printing"`
	AdminResponse    string          `json:"admin_response"`
	Reviewed         bool            `json:"reviewed"`
	DocumentPath     string          `json:"document_path"`
	ReceiptPath      string          `json:"receipt_path"`
	GcashReceiptPath string          `json:"gcash_receipt_path"`
}

// IsAssigned reports whether a staff member has been assigned
func (o Order) IsAssigned() bool { return o.AssignedStaffID != 0 }

// IsGuest reports whether the order was placed without an account
func (o Order) IsGuest() bool { return o.CustomerID == GuestCustomerID }

// Documents splits DocumentPath into its individual references
func (o Order) Documents() []string {
	var docs []string
	for _, d := range strings.Split(o.DocumentPath, DocumentSeparator) {
		if d = strings.TrimSpace(d); d != "" {
			docs = append(docs, d)
		}
	}
	return docs
}

// References returns every document and receipt reference on the order
func (o Order) References() []string {
	refs := o.Documents()
	if o.ReceiptPath != "" {
		refs = append(refs, o.ReceiptPath)
	}
	if o.GcashReceiptPath != "" {
		refs = append(refs, o.GcashReceiptPath)
	}
	return refs
}

// SameSubmission reports whether other carries the same submission content.
// Used to absorb double submits.
func (o Order) SameSubmission(other Order) bool {
	return o.CustomerName == other.CustomerName &&
		o.Status == other.Status &&
		o.TotalAmount.Equal(other.TotalAmount) &&
		o.PageCount == other.PageCount &&
		o.Copies == other.Copies &&
		o.IsColorPrinting == other.IsColorPrinting &&
		o.DocumentPath == other.DocumentPath &&
		o.ReceiptPath == other.ReceiptPath &&
		o.GcashReceiptPath == other.GcashReceiptPath
}

// IsTerminalStatus reports whether no further transition is allowed
func IsTerminalStatus(status string) bool {
	return status == StatusDeclined || status == StatusCompleted
}

// IsInProgressStatus reports whether the status counts toward possible revenue
func IsInProgressStatus(status string) bool {
	return strings.EqualFold(status, StatusAccepted) || strings.EqualFold(status, StatusOnProcess)
}

// JoinDocuments joins references into the DocumentPath form
func JoinDocuments(refs []string) string {
	return strings.Join(refs, DocumentSeparator)
}
