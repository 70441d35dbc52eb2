// Package localfs reads the local files being uploaded through an afero
// filesystem, so tests can run against an in-memory tree.
package localfs

import (
	"context"
	"crypto/md5"  //nolint:gosec // legacy manifest digest, not used for security
	"crypto/sha1" //nolint:gosec // legacy manifest digest, not used for security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// blockSize is the read size used when hashing.
const blockSize = 64 * 1024

// Ensure Files implements the interface.
var _ driven.LocalFiles = (*Files)(nil)

// Files implements driven.LocalFiles over an afero filesystem.
type Files struct {
	fs afero.Fs
}

// New creates a Files adapter over the OS filesystem.
func New() *Files {
	return NewWithFS(afero.NewOsFs())
}

// NewWithFS creates a Files adapter over the given filesystem.
func NewWithFS(fsys afero.Fs) *Files {
	return &Files{fs: fsys}
}

// Enumerate expands a file or directory into (local, remote) pairs.
func (f *Files) Enumerate(ctx context.Context, root string) ([]domain.LocalFile, error) {
	info, err := f.fs.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []domain.LocalFile{{LocalPath: root, RemotePath: filepath.Base(root)}}, nil
	}

	dirName := filepath.Base(filepath.Clean(root))
	var files []domain.LocalFile
	err = afero.Walk(f.fs, root, func(p string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, domain.LocalFile{
			LocalPath:  p,
			RemotePath: path.Join(dirName, filepath.ToSlash(rel)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RemotePath < files[j].RemotePath })
	return files, nil
}

// Checksum streams the file through the named hash in fixed-size blocks.
func (f *Files) Checksum(ctx context.Context, p, algorithm string) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}

	file, err := f.fs.Open(p)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, blockSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Size returns the file size and whether the file exists.
func (f *Files) Size(p string) (int64, bool, error) {
	info, err := f.fs.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return info.Size(), true, nil
}

// Abs resolves a path to an absolute path.
func (f *Files) Abs(p string) (string, error) {
	return filepath.Abs(p)
}

func newHash(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case domain.HashMD5:
		return md5.New(), nil //nolint:gosec // legacy manifest digest
	case domain.HashSHA1:
		return sha1.New(), nil //nolint:gosec // legacy manifest digest
	case domain.HashSHA224:
		return sha256.New224(), nil
	case domain.HashSHA256:
		return sha256.New(), nil
	case domain.HashSHA384:
		return sha512.New384(), nil
	case domain.HashSHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedHash, algorithm)
	}
}
