//go:build integration

// Integration tests against a MinIO server started with testcontainers.
//
// Run with:
//
//	go test -tags=integration ./transport/minio/...
//
// Docker must be available.
package minio_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/minio"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/transporttest"
)

const (
	testAccessKey = "davfs-test"
	testSecretKey = "davfs-test-secret"
	testBucket    = "davfs"
)

// startMinIO runs a MinIO server and returns its "http://host:port" endpoint.
func startMinIO(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			Cmd:          []string{"server", "/data"},
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     testAccessKey,
				"MINIO_ROOT_PASSWORD": testSecretKey,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start MinIO container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate MinIO container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	endpoint := startMinIO(ctx, t)

	admin, err := miniogo.New(endpoint, &miniogo.Options{
		Creds: credentials.NewStaticV4(testAccessKey, testSecretKey, ""),
	})
	require.NoError(t, err)
	require.NoError(t, admin.MakeBucket(ctx, testBucket, miniogo.MakeBucketOptions{}))

	// Each suite test gets its own key prefix as a fresh namespace.
	var n atomic.Int64
	transporttest.TestSuite(t, func() transport.Transport {
		s, err := minio.New("http://"+endpoint, testBucket,
			minio.WithCredentials(testAccessKey, testSecretKey, ""),
			minio.WithPrefix(fmt.Sprintf("suite-%d", n.Add(1))),
		)
		require.NoError(t, err)
		return s
	})
}
