package images

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string

	// base URL of public access to the bucket, like "https://cdn.example.com/landmarks-media".
	PublicURL string
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// Minio stores images in a S3 compatible object storage.
//
// The bucket is created if it does not exist.
func Minio(ctx context.Context, conf MinioConfig) (Store, error) {
	if conf.Endpoint == "" || conf.AccessKey == "" || conf.SecretKey == "" || conf.Bucket == "" {
		return nil, fmt.Errorf("minio: endpoint, access key, secret key and bucket are required")
	}

	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
		Region: conf.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{Region: conf.Region}); err != nil {
			return nil, err
		}
	}

	public := conf.PublicURL
	if public == "" {
		scheme := "http"
		if conf.UseSSL {
			scheme = "https"
		}
		public = fmt.Sprintf("%s://%s/%s", scheme, conf.Endpoint, conf.Bucket)
	}

	return &minioStore{
		client:    client,
		bucket:    conf.Bucket,
		publicURL: strings.TrimSuffix(public, "/"),
	}, nil
}

func (m *minioStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := m.client.PutObject(
		ctx, m.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

func (m *minioStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil
	}
	return err
}

func (m *minioStore) URL(key string) string {
	return m.publicURL + "/" + key
}
