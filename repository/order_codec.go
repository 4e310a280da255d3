package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/shopspring/decimal"
)

// An order line has 15 columns; the trailing gcash receipt column may be absent.
const minOrderFields = 14

// parseOrderLine reads
// id,customerId,customerName,status,assignedStaffId,totalAmount,pageCount,copies,
// isColorPrinting,date,adminResponse,isReviewed,documentPath,receiptPath,gcashReceiptPath.
// Numeric and boolean columns that fail to parse fall back to zero values.
// The persisted date column is not restored: CreatedAt is stamped with now.
func parseOrderLine(line string, now time.Time) (models.Order, error) {
	parts := strings.Split(line, ",")
	if len(parts) < minOrderFields {
		return models.Order{}, fmt.Errorf("expected at least %d fields, found %d", minOrderFields, len(parts))
	}
	if strings.TrimSpace(parts[0]) == "" {
		return models.Order{}, fmt.Errorf("missing order id")
	}

	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	status := field(3)
	if status == "" {
		status = models.StatusPending
	}

	return models.Order{
		ID:               field(0),
		CustomerID:       atoiOrZero(field(1)),
		CustomerName:     field(2),
		Status:           status,
		AssignedStaffID:  atoiOrZero(field(4)),
		TotalAmount:      decimalOrZero(field(5)),
		PageCount:        atoiOrZero(field(6)),
		Copies:           atoiOrZero(field(7)),
		IsColorPrinting:  parseBool(field(8)),
		CreatedAt:        now,
		AdminResponse:    field(10),
		Reviewed:         field(11) == "1" || parseBool(field(11)),
		DocumentPath:     field(12),
		ReceiptPath:      field(13),
		GcashReceiptPath: field(14),
	}, nil
}

func formatOrderLine(o models.Order) string {
	reviewed := "0"
	if o.Reviewed {
		reviewed = "1"
	}
	return strings.Join([]string{
		cleanField(o.ID),
		strconv.Itoa(o.CustomerID),
		cleanField(o.CustomerName),
		cleanField(o.Status),
		strconv.Itoa(o.AssignedStaffID),
		o.TotalAmount.StringFixed(2),
		strconv.Itoa(o.PageCount),
		strconv.Itoa(o.Copies),
		strconv.FormatBool(o.IsColorPrinting),
		o.CreatedAt.Format(models.TimestampLayout),
		cleanField(o.AdminResponse),
		reviewed,
		cleanField(o.DocumentPath),
		cleanField(o.ReceiptPath),
		cleanField(o.GcashReceiptPath),
	}, ",")
}

// normalizeOrder rewrites the text columns of o the way they read back from disk
func normalizeOrder(o models.Order) models.Order {
	o.ID = storedField(o.ID)
	o.CustomerName = storedField(o.CustomerName)
	o.Status = storedField(o.Status)
	o.AdminResponse = storedField(o.AdminResponse)
	o.DocumentPath = storedField(o.DocumentPath)
	o.ReceiptPath = storedField(o.ReceiptPath)
	o.GcashReceiptPath = storedField(o.GcashReceiptPath)
	return o
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func decimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
