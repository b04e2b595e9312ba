package storage

import (
	"context"
	"errors"
	"time"

	receiptapp "github.com/tradewiser/backend/internal/application/receipt"
)

// StubDocumentStorage is a development placeholder for DocumentStorage.
// It fabricates URLs and never touches a real backend. The production
// configuration validator rejects the stub provider.
type StubDocumentStorage struct {
	// BaseURL is the base for generated upload/download URLs
	BaseURL string
}

// NewStubDocumentStorage creates a new StubDocumentStorage
func NewStubDocumentStorage() *StubDocumentStorage {
	return &StubDocumentStorage{
		BaseURL: "https://storage.example.com",
	}
}

// Ensure StubDocumentStorage implements DocumentStorage
var _ receiptapp.DocumentStorage = (*StubDocumentStorage)(nil)

// GenerateUploadURL fabricates an upload URL
func (s *StubDocumentStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL fabricates a download URL
func (s *StubDocumentStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject is a no-op
func (s *StubDocumentStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists always reports true so the upload confirmation flow
// works during development
func (s *StubDocumentStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
