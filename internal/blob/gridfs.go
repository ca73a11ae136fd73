// Package blob guarda las imágenes del catálogo en un bucket GridFS, indexadas
// por ruta, y arma las URLs públicas con las que se sirven.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BucketName = "blobs"
	filesRoute = "/files/"
)

var ErrNotFound = errors.New("archivo no encontrado")

// Object es un blob abierto para lectura.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSStore(db *mongo.Database, publicBaseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(BucketName))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Upload sube el contenido en path (reemplazando una versión previa) y devuelve su URL pública.
func (s *GridFSStore) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	path = CleanPath(path)
	if path == "" {
		return "", fmt.Errorf("ruta de archivo vacía")
	}
	if err := s.deleteByName(ctx, path); err != nil {
		return "", err
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	if _, err := s.bucket.UploadFromStream(path, r, opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return s.URL(path), nil
}

// Open abre el archivo guardado en path.
func (s *GridFSStore) Open(ctx context.Context, path string) (*Object, error) {
	path = CleanPath(path)

	var file struct {
		Length   int64  `bson:"length"`
		Metadata bson.M `bson:"metadata"`
	}
	cur, err := s.bucket.FindContext(ctx, bson.M{"filename": path})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		return nil, ErrNotFound
	}
	if err := cur.Decode(&file); err != nil {
		return nil, err
	}

	stream, err := s.bucket.OpenDownloadStreamByName(path)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ct, _ := file.Metadata["contentType"].(string)
	return &Object{ReadCloser: stream, ContentType: ct, Size: file.Length}, nil
}

// Delete borra el archivo indicado por ruta o por su URL pública. No encontrado no es error.
func (s *GridFSStore) Delete(ctx context.Context, pathOrURL string) error {
	path := s.PathFromURL(pathOrURL)
	if path == "" {
		return nil
	}
	return s.deleteByName(ctx, path)
}

func (s *GridFSStore) deleteByName(ctx context.Context, path string) error {
	cur, err := s.bucket.FindContext(ctx, bson.M{"filename": path})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var f struct {
			ID any `bson:"_id"`
		}
		if err := cur.Decode(&f); err != nil {
			return err
		}
		if err := s.bucket.DeleteContext(ctx, f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return err
		}
	}
	return cur.Err()
}

// URL arma la dirección pública con la que el panel sirve el archivo.
func (s *GridFSStore) URL(path string) string {
	return s.baseURL + filesRoute + CleanPath(path)
}

// PathFromURL acepta una URL generada por URL o una ruta directa.
func (s *GridFSStore) PathFromURL(v string) string {
	if strings.HasPrefix(v, s.baseURL+filesRoute) {
		v = strings.TrimPrefix(v, s.baseURL+filesRoute)
	} else if i := strings.Index(v, filesRoute); i >= 0 && strings.Contains(v, "://") {
		v = v[i+len(filesRoute):]
	}
	return CleanPath(v)
}
