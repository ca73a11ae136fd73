package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/service"
)

const (
	payloadField = "payload"
	maxFormBytes = 32 << 20
)

// uploads son los archivos de un formulario multipart indexados por campo.
type uploads struct {
	files   map[string]*service.Upload
	closers []io.Closer
}

func (u *uploads) get(field string) *service.Upload {
	if u == nil {
		return nil
	}
	return u.files[field]
}

// withPrefix devuelve los archivos cuyo campo es "<prefix>:<clave>".
func (u *uploads) withPrefix(prefix string) map[string]*service.Upload {
	out := make(map[string]*service.Upload)
	if u == nil {
		return out
	}
	for field, up := range u.files {
		if key, ok := strings.CutPrefix(field, prefix+":"); ok && key != "" {
			out[key] = up
		}
	}
	return out
}

func (u *uploads) Close() {
	if u == nil {
		return
	}
	for _, c := range u.closers {
		_ = c.Close()
	}
}

// bindDraft acepta JSON plano o multipart con el JSON en el campo "payload"
// y las imágenes como partes de archivo.
func bindDraft(c *gin.Context, dst any) (*uploads, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, err
		}
		return &uploads{files: map[string]*service.Upload{}}, nil
	}

	form, err := parseForm(c)
	if err != nil {
		return nil, err
	}
	raw := form.Value[payloadField]
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing %q form field", payloadField)
	}
	if err := json.Unmarshal([]byte(raw[0]), dst); err != nil {
		return nil, fmt.Errorf("decode %s: %w", payloadField, err)
	}

	u := &uploads{files: make(map[string]*service.Upload)}
	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			u.Close()
			return nil, fmt.Errorf("open %s: %w", field, err)
		}
		u.closers = append(u.closers, f)
		u.files[field] = &service.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		}
	}
	return u, nil
}

func parseForm(c *gin.Context) (*multipart.Form, error) {
	if err := c.Request.ParseMultipartForm(maxFormBytes); err != nil {
		return nil, fmt.Errorf("parse multipart: %w", err)
	}
	return c.Request.MultipartForm, nil
}
