package blobstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3Client records calls and serves objects from a map.
type mockS3Client struct {
	objects map[string][]byte
	types   map[string]string
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = body
	if input.ContentType != nil {
		m.types[*input.Key] = *input.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, &notFoundError{}
	}
	ct := m.types[*input.Key]
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: &ct,
	}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type notFoundError struct{}

func (e *notFoundError) Error() string { return "NoSuchKey: key not found" }

func TestS3StoreRoundTrip(t *testing.T) {
	mock := newMockS3()
	store := NewS3Store(mock, "test-bucket", nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "incidents/abc/xray.png", "image/png", []byte("png-bytes")))

	b, err := store.Get(ctx, "incidents/abc/xray.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", b.ContentType)
	assert.Equal(t, []byte("png-bytes"), b.Data)

	require.NoError(t, store.Delete(ctx, "incidents/abc/xray.png"))
	_, err = store.Get(ctx, "incidents/abc/xray.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "k", "application/pdf", []byte("doc")))
	b, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", b.ContentType)

	// Stored bytes are isolated from the caller's slice.
	b.Data[0] = 'X'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("doc"), again.Data)
}
