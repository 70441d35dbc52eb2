package localfs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

func newMemFiles(t *testing.T, files map[string]string) *Files {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return NewWithFS(fsys)
}

func TestEnumerate_SingleFile(t *testing.T) {
	f := newMemFiles(t, map[string]string{"/data/foo.tsv": "a\tb\n"})

	files, err := f.Enumerate(context.Background(), "/data/foo.tsv")
	require.NoError(t, err)

	assert.Equal(t, []domain.LocalFile{{LocalPath: "/data/foo.tsv", RemotePath: "foo.tsv"}}, files)
}

func TestEnumerate_DirectoryTree(t *testing.T) {
	f := newMemFiles(t, map[string]string{
		"/data/set/b.csv":        "x",
		"/data/set/a.csv":        "y",
		"/data/set/nested/c.tsv": "z",
	})

	files, err := f.Enumerate(context.Background(), "/data/set")
	require.NoError(t, err)
	require.Len(t, files, 3)

	remote := make([]string, len(files))
	for i, lf := range files {
		remote[i] = lf.RemotePath
	}
	assert.Equal(t, []string{"set/a.csv", "set/b.csv", "set/nested/c.tsv"}, remote)
	assert.Equal(t, filepath.Join("/data/set", "nested", "c.tsv"), files[2].LocalPath)
}

func TestEnumerate_Missing(t *testing.T) {
	f := newMemFiles(t, nil)

	_, err := f.Enumerate(context.Background(), "/nope")
	assert.Error(t, err)
}

func TestChecksum_KnownDigests(t *testing.T) {
	f := newMemFiles(t, map[string]string{
		"/hello.txt": "hello world",
		"/empty.txt": "",
	})
	ctx := context.Background()

	tests := []struct {
		file     string
		alg      string
		expected string
	}{
		{"/hello.txt", "md5", "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{"/hello.txt", "sha1", "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"},
		{"/hello.txt", "sha256", "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
		{"/empty.txt", "md5", "d41d8cd98f00b204e9800998ecf8427e"},
		{"/empty.txt", "sha256", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}

	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.alg, func(t *testing.T) {
			sum, err := f.Checksum(ctx, tt.file, tt.alg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sum)
		})
	}
}

func TestChecksum_SpansManyBlocks(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789abcdef"), 3*blockSize/16+7)
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/big.bin", content, 0o644))

	sum, err := NewWithFS(fsys).Checksum(context.Background(), "/big.bin", "sha256")
	require.NoError(t, err)

	want := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(want[:]), sum)
}

func TestChecksum_UnsupportedAlgorithm(t *testing.T) {
	f := newMemFiles(t, map[string]string{"/a": "x"})

	_, err := f.Checksum(context.Background(), "/a", "crc32")
	assert.ErrorIs(t, err, domain.ErrUnsupportedHash)
}

func TestChecksum_UnreadableFile(t *testing.T) {
	f := newMemFiles(t, nil)

	_, err := f.Checksum(context.Background(), "/missing", "md5")
	assert.Error(t, err)
}

func TestSize(t *testing.T) {
	f := newMemFiles(t, map[string]string{"/a": "12345", "/empty": ""})

	n, ok, err := f.Size("/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)

	n, ok, err = f.Size("/empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), n)

	_, ok, err = f.Size("/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDetectMIME(t *testing.T) {
	f := newMemFiles(t, map[string]string{
		"/a.tsv":     "x\ty\n",
		"/a.CSV":     "x,y\n",
		"/a.parquet": "PAR1",
		"/a.txt":     "hi",
		"/noext":     "just some text",
		"/empty":     "",
		"/image":     "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR",
	})

	tests := []struct {
		file     string
		expected string
	}{
		{"/a.tsv", "text/tab-separated-values"},
		{"/a.CSV", "text/csv"},
		{"/a.parquet", "application/vnd.apache.parquet"},
		{"/a.txt", "text/plain"},
		{"/noext", "text/plain"},
		{"/empty", "text/plain"},
		{"/image", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := f.DetectMIME(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetectMIME_MissingFileWithoutExtension(t *testing.T) {
	f := newMemFiles(t, nil)

	got, err := f.DetectMIME("/missing")
	assert.Error(t, err)
	assert.Equal(t, mimeTypeUnknown, got)
}
