package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubDocumentStorage_GenerateUploadURL(t *testing.T) {
	store := NewStubDocumentStorage()

	url, expiresAt, err := store.GenerateUploadURL(context.Background(), "receipts/abc/grading-report.pdf", "application/pdf", 15*time.Minute)

	require.NoError(t, err)
	assert.Contains(t, url, "/upload/receipts/abc/grading-report.pdf")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Second)
}

func TestStubDocumentStorage_GenerateUploadURL_EmptyKey(t *testing.T) {
	store := NewStubDocumentStorage()

	_, _, err := store.GenerateUploadURL(context.Background(), "", "application/pdf", time.Minute)

	assert.Error(t, err)
}

func TestStubDocumentStorage_GenerateDownloadURL(t *testing.T) {
	store := NewStubDocumentStorage()

	url, _, err := store.GenerateDownloadURL(context.Background(), "receipts/abc/grading-report.pdf", time.Minute)

	require.NoError(t, err)
	assert.Contains(t, url, "/download/receipts/abc/grading-report.pdf")
}

func TestStubDocumentStorage_ObjectExists(t *testing.T) {
	store := NewStubDocumentStorage()

	exists, err := store.ObjectExists(context.Background(), "receipts/abc/grading-report.pdf")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStubDocumentStorage_DeleteObject(t *testing.T) {
	store := NewStubDocumentStorage()

	require.NoError(t, store.DeleteObject(context.Background(), "receipts/abc/grading-report.pdf"))
	assert.Error(t, store.DeleteObject(context.Background(), ""))
}
