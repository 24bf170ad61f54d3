// Package storage хранит файлы доказательств к отзывам в S3-совместимом хранилище.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL базовый адрес для ссылок на объекты. Если пуст, используется адрес endpoint.
	PublicURL string
}

type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	l         *logrus.Entry
}

// NewMinioStorage подключается к хранилищу и создает бакет, если его нет.
func NewMinioStorage(ctx context.Context, conf MinioConfig, l *logrus.Logger) (*MinioStorage, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", conf.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", conf.Bucket, err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", conf.Bucket, err)
		}
	}

	publicURL := strings.TrimRight(conf.PublicURL, "/")
	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}

	return &MinioStorage{
		client:    client,
		bucket:    conf.Bucket,
		publicURL: publicURL,
		l: l.WithFields(logrus.Fields{
			"component": "storage",
			"bucket":    conf.Bucket,
		}),
	}, nil
}

// Put сохраняет объект под ключом prefix/<uuid><ext> и возвращает ключ и ссылку на объект.
func (s *MinioStorage) Put(
	ctx context.Context,
	prefix, filename, contentType string,
	size int64,
	body io.Reader,
) (string, string, error) {
	key := ObjectKey(prefix, filename)

	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": filepath.Base(filename)},
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.l.WithFields(logrus.Fields{
		"key":  info.Key,
		"size": info.Size,
	}).Debug("object stored")

	return key, s.publicURL + "/" + s.bucket + "/" + key, nil
}

func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// ObjectKey формирует уникальный ключ объекта, сохраняя расширение исходного файла.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(strings.Trim(prefix, "/"), uuid.NewString()+ext)
}
