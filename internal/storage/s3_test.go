package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twentyhard/twentyhard/internal/config"
)

func TestPhotoKey(t *testing.T) {
	assert.Equal(t, "photos/u1/2024-05-01.jpg", PhotoKey("u1", "2024-05-01", ".jpg"))
}

func TestNew_DisabledWithoutBucket(t *testing.T) {
	s, err := New(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, s)
}
