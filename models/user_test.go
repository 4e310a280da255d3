package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRoleValues(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		admin    bool
		staff    bool
		customer bool
	}{
		{"admin role", RoleAdmin, true, false, false},
		{"staff role", RoleStaff, false, true, false},
		{"customer role", RoleCustomer, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{Role: tt.role}
			assert.Equal(t, tt.admin, u.IsAdmin())
			assert.Equal(t, tt.staff, u.IsStaff())
			assert.Equal(t, tt.customer, u.IsCustomer())
		})
	}
}

func TestUserPasswordNotSerialized(t *testing.T) {
	body, err := json.Marshal(User{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret1")
}

func TestSession(t *testing.T) {
	guest := GuestSession()
	assert.True(t, guest.IsGuest())
	assert.Equal(t, "Guest", guest.Name())
	assert.False(t, guest.HasRole(RoleCustomer))

	s := NewSession(User{ID: 2, Name: "Ana", Role: RoleStaff})
	assert.False(t, s.IsGuest())
	assert.True(t, s.HasRole(RoleStaff))
	assert.Equal(t, "Ana", s.Name())
}

func TestDefaultPricesCoverEveryKey(t *testing.T) {
	defaults := DefaultPrices()
	assert.Len(t, defaults, len(PricingKeys))
	for _, key := range PricingKeys {
		_, ok := defaults[key]
		assert.True(t, ok, "missing default for %s", key)
		assert.True(t, IsPricingKey(key))
	}
	assert.False(t, IsPricingKey("a3_colored"))
}
