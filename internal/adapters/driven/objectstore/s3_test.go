package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// fakeBucket is a minimal S3 endpoint holding objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	name    string
	objects map[string]string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if parts[0] != b.name {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<Error><Code>NoSuchBucket</Code><Message>The specified bucket does not exist</Message></Error>`)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[parts[1]] = string(body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		b.list(w, r.URL.Query().Get("prefix"), r.URL.Query().Get("delimiter"))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBucket) list(w http.ResponseWriter, prefix, delim string) {
	var contents, prefixes strings.Builder
	seen := map[string]bool{}
	for key, body := range b.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if i := strings.Index(rest, delim); delim != "" && i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				prefixes.WriteString("<CommonPrefixes><Prefix>" + cp + "</Prefix></CommonPrefixes>")
			}
			continue
		}
		contents.WriteString("<Contents><Key>" + key + "</Key><Size>" +
			strconv.Itoa(len(body)) + "</Size></Contents>")
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`+
		`<Name>`+b.name+`</Name><Prefix>`+prefix+`</Prefix><IsTruncated>false</IsTruncated>`+
		contents.String()+prefixes.String()+`</ListBucketResult>`)
}

func newTestTransfer(t *testing.T, bucket, prefix string, fsys afero.Fs) (*S3Transfer, *fakeBucket) {
	t.Helper()
	fake := &fakeBucket{name: "pilot-data", objects: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := NewS3Client(Config{
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	return NewS3Transfer(client, bucket, prefix, fsys), fake
}

func TestS3Transfer_SubmitAndList(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/local/foo.tsv", []byte("a\tb\n1\t2\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/local/set/x.csv", []byte("x\n"), 0o644))
	tr, fake := newTestTransfer(t, "pilot-data", "/mirror/", fsys)
	ctx := context.Background()

	res, err := tr.SubmitTransfer(ctx, domain.TransferRequest{
		Protocol: domain.ProtocolS3,
		Items: []domain.TransferItem{
			{LocalPath: "/local/foo.tsv", RemotePath: "/restricted/dataframes/dir/foo.tsv"},
			{LocalPath: "/local/set/x.csv", RemotePath: "/restricted/dataframes/dir/set/x.csv"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, CodeStored, res.Code)
	assert.NotEmpty(t, res.TaskID)
	assert.Equal(t, "a\tb\n1\t2\n", fake.objects["mirror/restricted/dataframes/dir/foo.tsv"])

	entries, err := tr.List(ctx, "/restricted/dataframes/dir")
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.DirEntry{
		{Name: "foo.tsv", Type: domain.DirEntryFile, Size: 8},
		{Name: "set", Type: domain.DirEntryDir},
	}, entries)
}

func TestS3Transfer_ListMissingDirectory(t *testing.T) {
	tr, _ := newTestTransfer(t, "pilot-data", "", afero.NewMemMapFs())

	_, err := tr.List(context.Background(), "/restricted/dataframes/nope")
	require.Error(t, err)
	assert.True(t, domain.IsTransferNotFound(err))
}

func TestS3Transfer_ListRootOfEmptyBucket(t *testing.T) {
	tr, _ := newTestTransfer(t, "pilot-data", "", afero.NewMemMapFs())

	entries, err := tr.List(context.Background(), "/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestS3Transfer_NoSuchBucket(t *testing.T) {
	tr, _ := newTestTransfer(t, "other-bucket", "", afero.NewMemMapFs())

	_, err := tr.List(context.Background(), "/x")

	var te *domain.TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.TransferCodeNotFound, te.Code)
}

func TestS3Transfer_MissingLocalFile(t *testing.T) {
	tr, _ := newTestTransfer(t, "pilot-data", "", afero.NewMemMapFs())

	_, err := tr.SubmitTransfer(context.Background(), domain.TransferRequest{
		Items: []domain.TransferItem{{LocalPath: "/missing", RemotePath: "/a"}},
	})
	assert.Error(t, err)
}

func TestS3Transfer_Key(t *testing.T) {
	tr := NewS3Transfer(nil, "b", "/mirror/", nil)

	assert.Equal(t, "mirror/restricted/a.tsv", tr.key("/restricted/a.tsv"))
	assert.Equal(t, "mirror", tr.key("/"))

	bare := NewS3Transfer(nil, "b", "", nil)
	assert.Equal(t, "restricted/a.tsv", bare.key("/restricted/a.tsv"))
}
