package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotificationLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantErr   bool
		message   string
		date      string
		hasReason bool
		reason    string
	}{
		{
			name:    "order placed",
			line:    "7,Alice,Order Placed: Order ID Ab12Cd, Status: Pending, Date: 2025-03-14 09:30:00",
			message: "Order Placed: Order ID Ab12Cd, Status: Pending",
			date:    "2025-03-14 09:30:00",
		},
		{
			name:      "declined with reason",
			line:      "7,Alice,2025-03-14 09:30:00 - Order Ab12Cd Declined. Reason: blurry scan",
			message:   "2025-03-14 09:30:00 - Order Ab12Cd Declined. Reason: blurry scan",
			hasReason: true,
			reason:    "blurry scan",
		},
		{
			name:    "last date marker wins",
			line:    "7,Alice,Date: old, Date: new",
			message: "Date: old",
			date:    "new",
		},
		{name: "too few fields", line: "7,Alice", wantErr: true},
		{name: "bad id", line: "x,Alice,hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := parseNotificationLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, n.CustomerID)
			assert.Equal(t, "Alice", n.CustomerName)
			assert.Equal(t, tt.message, n.Message)
			assert.Equal(t, tt.date, n.Date)
			assert.Equal(t, tt.hasReason, n.HasReason)
			assert.Equal(t, tt.reason, n.Reason)
		})
	}
}

func TestNotificationLogAddAndFor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Ordernotification.txt")
	l := NewNotificationLog(path, logger.Discard())
	l.now = func() time.Time { return fixedNow }

	require.NoError(t, l.Add(7, "Alice", "Order Ab12Cd Accepted.\nReason: ok"))
	require.NoError(t, l.Add(8, "Bob", "Order Ef34Gh Declined."))
	require.NoError(t, l.Add(-1, "Alice", "Guest order placed"))

	assert.Equal(t, "7,Alice,2025-03-14 09:30:00 - Order Ab12Cd Accepted. Reason: ok", readFile(t, path)[0])

	mine, err := l.For(7, "Alice")
	require.NoError(t, err)
	require.Len(t, mine, 2, "matched by id or by name")
	assert.True(t, mine[0].HasReason)
	assert.Equal(t, "ok", mine[0].Reason)

	bob, err := l.For(8, "")
	require.NoError(t, err)
	assert.Len(t, bob, 1)

	none, err := l.For(99, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
