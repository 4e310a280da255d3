package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDocument(t *testing.T) {
	api := newTestAPI(t)

	w, response := api.upload("", "My Thesis.pdf", "", []byte("%PDF"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ref := data(response)["reference"].(string)
	assert.True(t, strings.HasSuffix(ref, "My_Thesis.pdf"))
	assert.Equal(t, "/api/v1/documents/"+ref, data(response)["url"])

	w, response = api.upload("", "receipt.pdf", "receipt", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(response))

	w, response = api.upload("", "notes.txt", "document", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(response))

	w, response = api.upload("", "a.png", "contract", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_KIND", errorCode(response))
}

func TestUploadDocumentMissingFile(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader(""))
	w, response := api.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", errorCode(response))
}

func TestGetDocument(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken()
	ref := api.reference("", "scan.png", "receipt")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+ref, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "content of scan.png", w.Body.String())
	assert.Equal(t, "private, max-age=3600", w.Header().Get("Cache-Control"))

	w2, response := api.do(http.MethodGet, "/api/v1/documents/missing.png", token, nil)
	assert.Equal(t, http.StatusNotFound, w2.Code)
	assert.Equal(t, "FILE_NOT_FOUND", errorCode(response))

	w2, response = api.do(http.MethodGet, "/api/v1/documents/..hidden", token, nil)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
	assert.Equal(t, "INVALID_FILENAME", errorCode(response))

	w2, _ = api.do(http.MethodGet, "/api/v1/documents/"+ref, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}
