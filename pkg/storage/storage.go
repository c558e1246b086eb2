package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Store 对象存储接口
type Store interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, objectName string) (io.ReadCloser, error)
}

// New 根据配置创建对象存储, 未启用时返回 nil
func New(cfg *config.StorageConfig) (Store, error) {
	if cfg == nil || !cfg.Enable {
		return nil, nil
	}
	m, err := NewMinio(cfg)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Minio 基于 MinIO 的对象存储
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio 创建 MinIO 客户端
func NewMinio(cfg *config.StorageConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket 存储桶不存在时创建
func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", m.bucket, err)
	}
	logger.Info("已创建存储桶", zap.String("bucket", m.bucket))
	return nil
}

// Put 上传对象, 返回 bucket/object 形式的位置
func (m *Minio) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectName, err)
	}
	return info.Bucket + "/" + info.Key, nil
}

// Get 下载对象
func (m *Minio) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", objectName, err)
	}
	return obj, nil
}
