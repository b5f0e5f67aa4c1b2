package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/files/"})
	require.NoError(t, err)

	key := "avatars/u1/2024/01/a.png"
	require.NoError(t, s.Put(ctx, key, bytes.NewBufferString("png"), "image/png"))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(s.BasePath(), "avatars", "u1", "2024", "01", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	leftovers, err := filepath.Glob(filepath.Join(s.BasePath(), "avatars", "u1", "2024", "01", ".upload-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	assert.Equal(t, "/files/"+key, s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.Error(t, s.Put(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain"))
	assert.Error(t, s.Put(context.Background(), "/etc/passwd", strings.NewReader("x"), "text/plain"))
}

func TestBuckets(t *testing.T) {
	b, ok := LookupBucket(BucketPropertyImages)
	require.True(t, ok)
	assert.True(t, b.Allows("image/jpeg"))
	assert.True(t, b.Allows("image/png; charset=binary"))
	assert.False(t, b.Allows("application/zip"))
	assert.True(t, b.Thumbnail)

	docs, ok := LookupBucket(BucketAgentDocuments)
	require.True(t, ok)
	assert.True(t, docs.Allows("application/zip"))
	assert.True(t, docs.Private)

	_, ok = LookupBucket("secrets")
	assert.False(t, ok)
}

func TestObjectKey(t *testing.T) {
	b, _ := LookupBucket(BucketAvatars)
	key := b.ObjectKey("user-1", "PNG", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "avatars/user-1/2024/03/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "avatars/x/photo_thumb.jpg", ThumbnailKey("avatars/x/photo.png"))
}

func TestParseKey(t *testing.T) {
	b, owner, ok := ParseKey("agent-documents/agent-1/2024/03/x.pdf")
	require.True(t, ok)
	assert.Equal(t, BucketAgentDocuments, b.Name)
	assert.Equal(t, "agent-1", owner)

	_, _, ok = ParseKey("agent-documents/x.pdf")
	assert.False(t, ok)
	_, _, ok = ParseKey("secrets/u1/x.pdf")
	assert.False(t, ok)

	assert.True(t, IsPrivateKey("agent-documents/agent-1/2024/03/x.pdf"))
	assert.False(t, IsPrivateKey("avatars/u1/2024/03/x.png"))
	assert.True(t, IsPrivateKey("unknown/u1/x"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
