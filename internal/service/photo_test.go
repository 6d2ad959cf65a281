package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twentyhard/twentyhard/internal/challenge"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = b
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) URL(_ context.Context, key string) (string, error) {
	return "https://photos.example/" + key, nil
}

// fileHeader builds a multipart header the way net/http parses uploads.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["photo"][0]
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPhotoUpload(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")
	store := &memoryStorage{}
	photos := NewPhotoService(store, f.challenges)
	require.True(t, photos.Enabled())

	ch, err := photos.Upload(f.ctx, "u1", fileHeader(t, "me.PNG", pngHeader))
	require.NoError(t, err)

	assert.Contains(t, store.objects, "photos/u1/2024-05-10.png")
	log := ch.Log("2024-05-10")
	require.NotNil(t, log)
	assert.True(t, challenge.ValidatePhoto(log.Tasks["photo"], "2024-05-10", f.engine.Location()))
	payload := log.Tasks["photo"].(map[string]any)
	assert.Equal(t, "https://photos.example/photos/u1/2024-05-10.png", payload["url"])
}

func TestPhotoUpload_Rejects(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")

	_, err := NewPhotoService(nil, f.challenges).Upload(f.ctx, "u1", fileHeader(t, "me.png", pngHeader))
	assert.ErrorIs(t, err, ErrPhotosDisabled)

	photos := NewPhotoService(&memoryStorage{}, f.challenges)
	_, err = photos.Upload(f.ctx, "u1", fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPhotoUpload_RemovesObjectWhenLogFails(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	store := &memoryStorage{}
	photos := NewPhotoService(store, f.challenges)

	_, err := photos.Upload(f.ctx, "ghost", fileHeader(t, "me.png", pngHeader))
	require.Error(t, err)
	assert.Empty(t, store.objects)
}
