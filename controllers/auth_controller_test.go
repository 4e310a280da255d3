package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration(username string) gin.H {
	return gin.H{
		"name":           "Alice Reyes",
		"student_id":     "2021-0001",
		"email":          "alice@school.edu",
		"contact_number": "0912345678",
		"course":         "BSIT",
		"section":        "3A",
		"username":       username,
		"password":       "secret1",
	}
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name           string
		body           gin.H
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "default admin",
			body:           gin.H{"username": repository.DefaultAdminUsername, "password": repository.DefaultAdminPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			body:           gin.H{"username": repository.DefaultAdminUsername, "password": "nope"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "INVALID_CREDENTIALS",
		},
		{
			name:           "missing password",
			body:           gin.H{"username": repository.DefaultAdminUsername},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := api.do(http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.False(t, response["success"].(bool))
				assert.Equal(t, tt.expectedCode, errorCode(response))
				return
			}
			assert.True(t, response["success"].(bool))
			assert.NotEmpty(t, data(response)["token"])
			user := data(response)["user"].(map[string]interface{})
			assert.Equal(t, "admin", user["role"])
			assert.NotContains(t, user, "password")
		})
	}
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	w, response := api.do(http.MethodPost, "/api/v1/auth/register", "", registration("alice"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, false, data(response)["active"])
	assert.Equal(t, "customer", data(response)["role"])

	w, response = api.do(http.MethodPost, "/api/v1/auth/register", "", registration("alice"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_USERNAME", errorCode(response))

	body := registration("bob")
	body["contact_number"] = "123"
	w, response = api.do(http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(response))
	assert.Equal(t, "contact_number", response["error"].(map[string]interface{})["details"])

	// Not approved yet
	w, response = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(response))
}
