package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MinioUploader stocke les images produit et retourne leur URL publique.
type MinioUploader struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

func NewMinioUploader(client *minio.Client, bucket, endpoint string, secure bool) *MinioUploader {
	return &MinioUploader{client: client, bucket: bucket, endpoint: endpoint, secure: secure}
}

// ObjectName génère un nom unique sous products/ en gardant l'extension d'origine.
func ObjectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "products/" + uuid.NewString() + ext
}

func (u *MinioUploader) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name := ObjectName(filename)
	_, err := u.client.PutObject(ctx, u.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", name, err)
	}
	return u.PublicURL(name), nil
}

func (u *MinioUploader) PublicURL(object string) string {
	scheme := "http"
	if u.secure {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: u.endpoint, Path: "/" + u.bucket + "/" + object}).String()
}
