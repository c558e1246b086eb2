package storage

import (
	"testing"

	"github.com/esgdesk/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledReturnsNil(t *testing.T) {
	s, err := New(&config.StorageConfig{Enable: false})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestNewMinioBuildsClientWithoutConnecting(t *testing.T) {
	s, err := New(&config.StorageConfig{
		Enable:    true,
		Endpoint:  "127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "ghg-imports",
	})
	require.NoError(t, err)
	m, ok := s.(*Minio)
	require.True(t, ok)
	assert.Equal(t, "ghg-imports", m.bucket)
}
