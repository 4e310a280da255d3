package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/services"
	"github.com/kendall-kelly/print-shop-api/utils"
)

// UploadDocument handles POST /api/v1/documents - stores a print file or receipt.
// The multipart form carries the file under "file" and optionally "kind"
// ("document" or "receipt", default "document"). The returned reference is
// what order submissions name.
func (ctl *Controller) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A file is required in the \"file\" form field", nil)
		return
	}

	kind := c.DefaultPostForm("kind", utils.KindDocument)
	ref, err := ctl.shop.Documents.Save(c.Request.Context(), fileHeader, kind)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	url, err := ctl.shop.Documents.URL(c.Request.Context(), ref)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"reference": ref,
		"url":       url,
	})
}

// GetDocument handles GET /api/v1/documents/:ref - serves a locally stored file
func (ctl *Controller) GetDocument(c *gin.Context) {
	ref := c.Param("ref")

	local, ok := ctl.shop.Documents.(*services.LocalDocumentStore)
	if !ok {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Documents are served from object storage", nil)
		return
	}

	path, ok := local.Path(ref)
	if !ok {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename", nil)
		return
	}

	exists, err := local.Exists(c.Request.Context(), ref)
	if err != nil {
		ctl.handleError(c, err)
		return
	}
	if !exists {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Document not found", nil)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.File(path)
}
