package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/config"
	"github.com/kendall-kelly/print-shop-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	healthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Print Shop API is running", response["message"])
}

func TestNewDocumentStore(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		cfg := &config.Config{DataDir: t.TempDir(), DocumentStore: config.DocumentStoreLocal}
		store, err := newDocumentStore(t.Context(), cfg)
		require.NoError(t, err)
		assert.IsType(t, &services.LocalDocumentStore{}, store)
	})

	t.Run("s3", func(t *testing.T) {
		cfg := &config.Config{
			DocumentStore:      config.DocumentStoreS3,
			AWSRegion:          "us-east-1",
			AWSS3Bucket:        "print-shop-test",
			AWSAccessKeyID:     "test-key",
			AWSSecretAccessKey: "test-secret",
		}
		store, err := newDocumentStore(t.Context(), cfg)
		require.NoError(t, err)
		assert.IsType(t, &services.S3DocumentStore{}, store)
	})
}
