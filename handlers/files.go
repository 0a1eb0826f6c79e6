package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/docugrade/docugrade/internal/document/service"
	"github.com/docugrade/docugrade/pkg/logger"
	"github.com/docugrade/docugrade/pkg/metrics"
)

// FilesHandler exposes the per-user document store: upload, list, download.
type FilesHandler struct {
	docs *service.Service
}

func NewFilesHandler(d *service.Service) *FilesHandler {
	return &FilesHandler{docs: d}
}

// Register routes under /files; every route requires authentication.
func (h *FilesHandler) Register(rg *gin.RouterGroup, authed gin.HandlerFunc) {
	f := rg.Group("/files", authed)
	f.POST("/upload", h.Upload)
	f.GET("/", h.List)
	f.GET("/download/:id", h.Download)
}

// Upload accepts a multipart batch under the "files" field. Items with an
// empty filename are rejected individually; the rest of the batch proceeds.
func (h *FilesHandler) Upload(c *gin.Context) {
	u := mustUser(c)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		uploads = append(uploads, service.Upload{Filename: fh.Filename, Data: data})
	}

	saved, rejected, err := h.docs.SaveAll(c.Request.Context(), u.ID, uploads)
	if err != nil {
		// files already written stay on disk; the commit error is surfaced
		logger.Errorf("upload failed for user %d: %v", u.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed", "details": err.Error()})
		return
	}
	if len(saved) == 0 && rejected > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}
	metrics.FilesUploaded.Add(float64(len(saved)))
	resp := gin.H{"saved": saved}
	if rejected > 0 {
		resp["rejected"] = rejected
	}
	c.JSON(http.StatusOK, resp)
}

// List returns the caller's documents, most recent first.
func (h *FilesHandler) List(c *gin.Context) {
	u := mustUser(c)
	out, err := h.docs.List(c.Request.Context(), u.ID)
	if err != nil {
		logger.Errorf("list failed for user %d: %v", u.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Download streams a document back under its original filename. Outcome
// mapping: unknown or foreign id -> 404; a stored path escaping the user's
// directory -> 403; confined but absent from disk -> 404.
func (h *FilesHandler) Download(c *gin.Context) {
	u := mustUser(c)
	docID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	doc, f, err := h.docs.Open(c.Request.Context(), u.ID, docID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			metrics.FileDownloads.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		case errors.Is(err, service.ErrAccessDenied):
			metrics.FileDownloads.WithLabelValues("denied").Inc()
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrMissingOnDisk):
			metrics.FileDownloads.WithLabelValues("missing").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "File missing on disk"})
		default:
			logger.Errorf("download failed for user %d doc %d: %v", u.ID, docID, err)
			metrics.FileDownloads.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		}
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		metrics.FileDownloads.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}
	metrics.FileDownloads.WithLabelValues("ok").Inc()
	// label the stream with the original filename, not the storage path's
	extra := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Filename),
	}
	c.DataFromReader(http.StatusOK, st.Size(), "application/octet-stream", f, extra)
}
