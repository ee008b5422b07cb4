package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rof/invgen/internal/core/domain"
)

const testBucket = "invgen-uploads"

// newTestMinIO points a store at an S3 endpoint that knows the bucket but
// holds no objects.
func newTestMinIO(t *testing.T) *MinIO {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-amz-request-id", "test")
		if strings.Trim(r.URL.Path, "/") == testBucket {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return &MinIO{client: client, bucket: testBucket}
}

func TestIsNoSuchKey(t *testing.T) {
	assert.True(t, isNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
	assert.False(t, isNoSuchKey(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}))
	assert.False(t, isNoSuchKey(errors.New("connection refused")))
}

func TestMinIO_RejectsBadNames(t *testing.T) {
	// checkName runs before any request, so no client is needed.
	store := &MinIO{bucket: testBucket}
	ctx := context.Background()

	err := store.Save(ctx, "../escape.png", strings.NewReader("x"), 1, "image/png")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	err = store.Delete(ctx, "a/b.png")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = store.Open(ctx, "..")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMinIO_OpenMissingObject(t *testing.T) {
	store := newTestMinIO(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	_, err := store.Open(ctx, "missing.png")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}
