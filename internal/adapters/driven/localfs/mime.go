package localfs

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

const (
	mimeTypeUnknown       = "application/octet-stream"
	mimeTypeCheckPartSize = 512
)

// Types commonly used for dataframes, checked before the system table
// since platform tables disagree on them.
var knownTypes = map[string]string{
	".tsv":     domain.MIMETypeTSV,
	".tab":     domain.MIMETypeTSV,
	".csv":     domain.MIMETypeCSV,
	".txt":     "text/plain",
	".json":    "application/json",
	".parquet": domain.MIMETypeParquet,
	".h5":      "application/x-hdf5",
	".hdf5":    "application/x-hdf5",
	".feather": "application/vnd.apache.arrow.file",
	".npy":     "application/octet-stream",
}

// DetectMIME guesses the content type by extension, then by sniffing the
// first bytes of the file. Parameters such as charset are dropped.
func (f *Files) DetectMIME(p string) (string, error) {
	ext := strings.ToLower(filepath.Ext(p))
	if t, ok := knownTypes[ext]; ok {
		return t, nil
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return baseType(t), nil
		}
	}

	file, err := f.fs.Open(p)
	if err != nil {
		return mimeTypeUnknown, err
	}
	defer file.Close()

	buffer := make([]byte, mimeTypeCheckPartSize)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return mimeTypeUnknown, err
	}
	return baseType(http.DetectContentType(buffer[:n])), nil
}

func baseType(t string) string {
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return t
	}
	return mediaType
}
