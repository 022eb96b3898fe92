package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ObjectStorage defines the object storage operations used to archive context snapshots.
type ObjectStorage interface {
	// PutObject uploads body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// SnapshotKey returns a fresh object key for the context snapshot of a generation.
func SnapshotKey(ownerID, generationID string, at time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s/%s-%s.json", ownerID, at.UTC().Format("2006/01"), generationID, uuid.NewString())
}

// ErrDisabled is returned by Noop.
var ErrDisabled = errors.New("object storage is disabled")

// Noop is used when no bucket is configured.
type Noop struct{}

func (Noop) PutObject(context.Context, string, string, []byte) error { return ErrDisabled }

func (Noop) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrDisabled
}

func (Noop) DeleteObject(context.Context, string) error { return nil }
