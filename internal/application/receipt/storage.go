package receipt

import (
	"context"
	"time"
)

// DocumentStorage abstracts object storage for receipt attachments.
// Uploads and downloads go through presigned URLs so file bytes never
// pass through the API server.
type DocumentStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
