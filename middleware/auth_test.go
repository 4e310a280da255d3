package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/print-shop-api/config"
	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResolver resolves users from a fixed map
type mockResolver struct {
	users map[string]models.User
}

func (m *mockResolver) Resolve(userID string) (models.Session, error) {
	u, ok := m.users[userID]
	if !ok {
		return models.Session{}, errors.New("no such user")
	}
	return models.NewSession(u), nil
}

func testConfig() *config.Config {
	return &config.Config{
		GoEnv:       "test",
		JWTSecret:   "middleware-secret",
		JWTIssuer:   "print-shop-api",
		JWTAudience: "print-shop-clients",
	}
}

func signToken(t *testing.T, cfg *config.Config, id int, role string, secret string) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.Itoa(id),
		"iss":      cfg.JWTIssuer,
		"aud":      []string{cfg.JWTAudience},
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
		"username": "user" + strconv.Itoa(id),
		"role":     role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(t *testing.T, optional bool) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	resolver := &mockResolver{users: map[string]models.User{
		"1": {ID: 1, Name: "Admin", Role: models.RoleAdmin, Active: true},
		"7": {ID: 7, Name: "Alice", Role: models.RoleCustomer, Active: true},
	}}
	auth, err := NewAuthenticator(cfg, resolver, logger.Discard())
	require.NoError(t, err)

	guard := auth.EnsureValidToken()
	if optional {
		guard = auth.OptionalToken()
	}

	router := gin.New()
	router.GET("/whoami", guard, func(c *gin.Context) {
		session := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"guest": session.IsGuest(), "name": session.Name()})
	})
	router.GET("/admin", guard, RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router, cfg
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCustomClaims_Validate(t *testing.T) {
	for _, role := range []string{models.RoleAdmin, models.RoleStaff, models.RoleCustomer} {
		assert.NoError(t, CustomClaims{Role: role}.Validate(context.Background()), role)
	}
	assert.Error(t, CustomClaims{Role: "superuser"}.Validate(context.Background()))
	assert.Error(t, CustomClaims{}.Validate(context.Background()))
}

func TestEnsureValidToken(t *testing.T) {
	router, cfg := newTestRouter(t, false)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantName   string
	}{
		{"valid token", signToken(t, cfg, 7, models.RoleCustomer, cfg.JWTSecret), http.StatusOK, "Alice"},
		{"missing token", "", http.StatusUnauthorized, ""},
		{"wrong secret", signToken(t, cfg, 7, models.RoleCustomer, "other"), http.StatusUnauthorized, ""},
		{"unknown role", signToken(t, cfg, 7, "superuser", cfg.JWTSecret), http.StatusUnauthorized, ""},
		{"inactive user", signToken(t, cfg, 99, models.RoleCustomer, cfg.JWTSecret), http.StatusUnauthorized, ""},
		{"garbage", "not-a-jwt", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "/whoami", tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantName, response["name"])
				assert.Equal(t, false, response["guest"])
			} else {
				assert.Equal(t, false, response["success"])
				assert.Equal(t, "INVALID_TOKEN", response["error"].(map[string]interface{})["code"])
			}
		})
	}
}

func TestOptionalToken(t *testing.T) {
	router, cfg := newTestRouter(t, true)

	w := doRequest(router, "/whoami", "")
	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["guest"])
	assert.Equal(t, "Guest", response["name"])

	w = doRequest(router, "/whoami", signToken(t, cfg, 1, models.RoleAdmin, cfg.JWTSecret))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Admin", response["name"])

	// A bad token is still rejected
	w = doRequest(router, "/whoami", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	router, cfg := newTestRouter(t, true)

	assert.Equal(t, http.StatusOK, doRequest(router, "/admin", signToken(t, cfg, 1, models.RoleAdmin, cfg.JWTSecret)).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, "/admin", signToken(t, cfg, 7, models.RoleCustomer, cfg.JWTSecret)).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/admin", "").Code)
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    string
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", "12")
			},
			wantID:  "12",
			wantErr: false,
		},
		{
			name: "user ID not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set user_id
			},
			wantID:  "",
			wantErr: true,
		},
		{
			name: "user ID is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", 12345) // Set as int instead of string
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantErr   bool
	}{
		{
			name: "successfully extracts claims",
			setupFunc: func(c *gin.Context) {
				c.Set("validated_claims", &validator.ValidatedClaims{
					RegisteredClaims: validator.RegisteredClaims{Issuer: "print-shop-api", Subject: "12"},
					CustomClaims:     &CustomClaims{Role: models.RoleStaff},
				})
			},
			wantErr: false,
		},
		{
			name:      "claims not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "claims have wrong type",
			setupFunc: func(c *gin.Context) {
				c.Set("validated_claims", "not claims")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			claims, err := GetClaims(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

func TestGetSessionDefaultsToGuest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, GetSession(c).IsGuest())

	SetSession(c, models.NewSession(models.User{ID: 3, Role: models.RoleStaff}))
	assert.True(t, GetSession(c).HasRole(models.RoleStaff))
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Code:    "TEST_ERROR",
		Message: "This is a test error",
	}

	assert.Equal(t, "This is a test error", err.Error())
}
