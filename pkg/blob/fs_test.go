package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))

	info, err := s.Put(ctx, "crop-health/u1/leaf.jpg", strings.NewReader("jpeg"), PutOptions{ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)

	_, err = s.Put(ctx, "crop-health/u1/leaf.jpg", strings.NewReader("again"), PutOptions{})
	assert.Error(t, err)

	got, rc, err := s.Get(ctx, "crop-health/u1/leaf.jpg")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "jpeg", string(b))
	assert.Equal(t, "image/jpeg", got.ContentType)

	ok, err := s.Delete(ctx, "crop-health/u1/leaf.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	_, _, err = s.Get(ctx, "crop-health/u1/leaf.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = s.Delete(ctx, "crop-health/u1/leaf.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCleanKeyRejectsTraversal(t *testing.T) {
	for _, k := range []string{"", " ", "/etc/passwd", "a/../../b"} {
		_, err := CleanKey(k)
		assert.Error(t, err, k)
	}
	k, err := CleanKey("a//b/./c")
	require.NoError(t, err)
	assert.Equal(t, "a/b/c", k)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
