package minio_storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type CertificateStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewCertificateStorage(storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*CertificateStorage, error) {
	if err := storage.ensureBucket(context.Background(), bucketName); err != nil {
		return nil, err
	}
	return &CertificateStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

// UploadCertificate stores a rendered PNG and returns its object key.
// The key is deterministic per (user, course) so a re-render of the
// same certificate overwrites rather than accumulates.
func (s *CertificateStorage) UploadCertificate(
	ctx context.Context,
	userID uuid.UUID,
	courseID uuid.UUID,
	data []byte,
) (objectKey string, err error) {
	objectKey = fmt.Sprintf("certificates/%s/%s.png", userID.String(), courseID.String())

	_, err = s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *CertificateStorage) CertificateURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		reqParams,
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *CertificateStorage) DeleteCertificate(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
