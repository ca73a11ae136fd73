package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// BlobStore guarda las imágenes del catálogo.
type BlobStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, pathOrURL string) error
}

// Upload es una imagen pendiente que llega junto con el formulario.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// deleteBlobs borra imágenes sin propagar errores: el registro ya no existe.
func deleteBlobs(ctx context.Context, blobs BlobStore, log *slog.Logger, urls ...string) {
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if err := blobs.Delete(ctx, u); err != nil {
			log.Warn("blob delete failed", "url", u, "error", err)
		}
	}
}

func upload(ctx context.Context, blobs BlobStore, path string, up *Upload) (string, error) {
	ct := up.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return blobs.Upload(ctx, path, ct, up.Body)
}

// matchesNeedle compara contra el nombre (subcadena) o el conjunto de palabras clave.
func matchesNeedle(needle, name string, keywords []string, extra ...string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(name), needle) {
		return true
	}
	for _, e := range extra {
		if strings.Contains(strings.ToLower(e), needle) {
			return true
		}
	}
	for _, k := range keywords {
		if k == needle {
			return true
		}
	}
	return false
}
