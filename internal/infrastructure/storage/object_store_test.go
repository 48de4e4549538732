package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
)

func TestMinioStore_PresignGet(t *testing.T) {
	store, err := newMinioStore(config.StorageConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "libraryhub",
	}, "us-east-1")
	require.NoError(t, err)

	raw, err := store.PresignGet(context.Background(), "imports/1/abc.csv", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/libraryhub/imports/1/abc.csv", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewMinioStore_InvalidEndpoint(t *testing.T) {
	_, err := newMinioStore(config.StorageConfig{Endpoint: "http://bad endpoint"}, "us-east-1")
	assert.Error(t, err)
}
