package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/config"
	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/middleware"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/kendall-kelly/print-shop-api/repository"
	"github.com/kendall-kelly/print-shop-api/services"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	dir    string
	shop   *services.Shop
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		GoEnv:           "test",
		DataDir:         dir,
		JWTSecret:       "controller-secret",
		JWTIssuer:       "print-shop-api",
		JWTAudience:     "print-shop-clients",
		TokenTTL:        time.Hour,
		RefreshInterval: time.Second,
		CredentialMode:  config.CredentialModePlaintext,
		DocumentStore:   config.DocumentStoreLocal,
	}
	log := logger.Discard()

	shop := services.NewShop(cfg, services.NewLocalDocumentStore(filepath.Join(dir, "uploads")), log)
	shop.Load()

	auth, err := middleware.NewAuthenticator(cfg, shop, log)
	require.NoError(t, err)

	router := gin.New()
	New(shop, log).RegisterRoutes(router.Group("/api/v1"), auth)

	return &testAPI{t: t, dir: dir, shop: shop, router: router}
}

// do sends a JSON request and decodes the envelope
func (a *testAPI) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w, response
}

// upload posts a multipart file to the documents endpoint and returns its reference
func (a *testAPI) upload(token, filename, kind string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	if kind != "" {
		require.NoError(a.t, writer.WriteField("kind", kind))
	}
	require.NoError(a.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *testAPI) reference(token, filename, kind string) string {
	a.t.Helper()
	w, response := a.upload(token, filename, kind, []byte("content of "+filename))
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return data(response)["reference"].(string)
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	w, response := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return data(response)["token"].(string)
}

func (a *testAPI) adminToken() string {
	return a.login(repository.DefaultAdminUsername, repository.DefaultAdminPassword)
}

func (a *testAPI) adminSession() models.Session {
	u, ok := a.shop.Users.FindByUsername(repository.DefaultAdminUsername)
	require.True(a.t, ok)
	return models.NewSession(u)
}

// customer registers and approves a customer, returning its id and token
func (a *testAPI) customer(username string) (int, string) {
	a.t.Helper()
	u, err := a.shop.Register(services.RegistrationInput{
		Name: "Customer " + username, StudentID: "2021-1", Email: username + "@school.edu",
		ContactNumber: "0912345678", Course: "BSIT", Section: "1A", Username: username, Password: "secret1",
	})
	require.NoError(a.t, err)
	_, err = a.shop.ApproveCustomer(a.adminSession(), u.ID)
	require.NoError(a.t, err)
	return u.ID, a.login(username, "secret1")
}

// staff creates a staff member, returning its id and token
func (a *testAPI) staff(username string) (int, string) {
	a.t.Helper()
	u, err := a.shop.CreateStaff(a.adminSession(), services.StaffInput{
		Name: "Staff " + username, Email: username + "@shop.com", ContactNumber: "0911111111",
		Username: username, Password: "staffpass",
	})
	require.NoError(a.t, err)
	return u.ID, a.login(username, "staffpass")
}

func data(response map[string]interface{}) map[string]interface{} {
	return response["data"].(map[string]interface{})
}

func errorCode(response map[string]interface{}) string {
	return response["error"].(map[string]interface{})["code"].(string)
}
