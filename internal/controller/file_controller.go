package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/blob"
)

type BlobReader interface {
	Open(ctx context.Context, path string) (*blob.Object, error)
}

type FileController struct {
	Store BlobReader
	log   *slog.Logger
}

func NewFileController(store BlobReader, log *slog.Logger) *FileController {
	return &FileController{Store: store, log: log.With("component", "file_controller")}
}

// GET /files/*path (público): sirve las imágenes del catálogo
func (ctl *FileController) Serve(c *gin.Context) {
	path := blob.CleanPath(c.Param("path"))
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	obj, err := ctl.Store.Open(c.Request.Context(), path)
	if errors.Is(err, blob.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	defer obj.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	if obj.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	ct := obj.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Type", ct)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, obj); err != nil {
		ctl.log.Warn("file copy interrupted", "path", path, "error", err)
	}
}
