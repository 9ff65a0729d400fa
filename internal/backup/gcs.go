// Package backup moves store snapshots to and from Google Cloud Storage.
// The local files remain the working copy; the bucket holds timestamped
// snapshots for disaster recovery.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/monify-app/monify/internal/store"
)

// CredentialsEnv names a service account key file. When unset the client
// falls back to Application Default Credentials.
const CredentialsEnv = "MONIFY_GCP_CREDENTIALS"

func newClient(ctx context.Context) (*storage.Client, error) {
	if creds := os.Getenv(CredentialsEnv); creds != "" {
		return storage.NewClient(ctx, option.WithCredentialsFile(creds))
	}
	return storage.NewClient(ctx)
}

// ObjectName returns the snapshot object name for the given moment.
func ObjectName(at time.Time) string {
	return fmt.Sprintf("snapshots/monify-%s.json", at.UTC().Format("20060102-150405"))
}

// Upload writes the store's current snapshot to the bucket and returns
// the object name.
func Upload(ctx context.Context, st *store.Store, bucketName string) (string, error) {
	data, err := st.Snapshot()
	if err != nil {
		return "", fmt.Errorf("backup.Upload: %w", err)
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", fmt.Errorf("backup.Upload: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	objectName := ObjectName(time.Now())
	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("backup.Upload: writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("backup.Upload: finalize upload: %w", err)
	}

	return objectName, nil
}

// Download fetches a snapshot object and restores it into the store.
func Download(ctx context.Context, st *store.Store, bucketName, objectName string) error {
	client, err := newClient(ctx)
	if err != nil {
		return fmt.Errorf("backup.Download: create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("backup.Download: reading object %s/%s: %w", bucketName, objectName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("backup.Download: reading bytes: %w", err)
	}

	if err := st.RestoreSnapshot(data); err != nil {
		return fmt.Errorf("backup.Download: %w", err)
	}
	return nil
}
