package services

import (
	"context"
	"io"
	"testing"

	"github.com/imged/layout-service/internal/events"
	"github.com/imged/layout-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageServiceForTest(t *testing.T, maxBytes int64) (ImageService, *fakeRepo, *storage.FileStore, *events.MockEventPublisher) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	repo := newFakeRepo()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewImageService(repo, store, publisher, testLogger(), maxBytes)
	return service, repo, store, publisher
}

func TestImageServiceUploadStoresNewImage(t *testing.T) {
	service, _, store, publisher := newImageServiceForTest(t, 502400)

	result, err := service.Upload(context.Background(), UploadRequest{
		OriName: "diagram.png",
		Data:    []byte("png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "f_1.png", result.ImgServerName)
	assert.False(t, result.Duplicate)
	assert.Equal(t, 1, result.Multiplicity)
	assert.True(t, store.Exists("f_1.png"))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventImageUploaded, published[0].Type)
}

func TestImageServiceUploadDeduplicates(t *testing.T) {
	service, _, store, _ := newImageServiceForTest(t, 502400)
	ctx := context.Background()

	first, err := service.Upload(ctx, UploadRequest{OriName: "diagram.png", Data: []byte("png-bytes")})
	require.NoError(t, err)

	second, err := service.Upload(ctx, UploadRequest{OriName: "diagram.png", Data: []byte("png-bytes")})
	require.NoError(t, err)

	assert.Equal(t, first.ImgServerName, second.ImgServerName)
	assert.True(t, second.Duplicate)
	assert.Equal(t, 2, second.Multiplicity)
	assert.False(t, store.Exists("f_2.png"))
}

func TestImageServiceUploadSameBytesDifferentName(t *testing.T) {
	service, _, _, _ := newImageServiceForTest(t, 502400)
	ctx := context.Background()

	first, err := service.Upload(ctx, UploadRequest{OriName: "a.png", Data: []byte("png-bytes")})
	require.NoError(t, err)

	// The dedup key includes the original name, so this is a new image
	second, err := service.Upload(ctx, UploadRequest{OriName: "b.png", Data: []byte("png-bytes")})
	require.NoError(t, err)

	assert.NotEqual(t, first.ImgServerName, second.ImgServerName)
	assert.False(t, second.Duplicate)
}

func TestImageServiceUploadRejections(t *testing.T) {
	service, _, _, publisher := newImageServiceForTest(t, 16)
	ctx := context.Background()

	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"empty file", UploadRequest{OriName: "a.png", Data: nil}, ErrEmptyUpload},
		{"too large", UploadRequest{OriName: "a.png", Data: make([]byte, 17)}, ErrFileTooLarge},
		{"bad extension", UploadRequest{OriName: "a.bmp", Data: []byte("x")}, ErrBadExtension},
		{"no extension", UploadRequest{OriName: "noext", Data: []byte("x")}, ErrBadExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Upload(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}

	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestImageServiceOpen(t *testing.T) {
	service, _, _, _ := newImageServiceForTest(t, 502400)
	ctx := context.Background()

	result, err := service.Upload(ctx, UploadRequest{OriName: "a.png", Data: []byte("png-bytes")})
	require.NoError(t, err)

	reader, err := service.Open(ctx, result.ImgServerName)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestImageServiceOpenUnknownImage(t *testing.T) {
	service, _, _, _ := newImageServiceForTest(t, 502400)

	_, err := service.Open(context.Background(), "f_99.png")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
