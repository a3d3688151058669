package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/pkg/errors"
)

// ErrEmptyArchive is returned when an archive holds no files.
var ErrEmptyArchive = errors.New("archive contains no files")

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip, .7z) yield their first file.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading rom")
	}

	data, err = Decompress(strings.ToLower(filepath.Ext(filename)), data)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing %s", filename)
	}
	return data, nil
}

// Decompress decodes data according to the file extension ext. Unknown
// extensions, including raw images (.gb, .bin), are returned as is.
func Decompress(ext string, data []byte) ([]byte, error) {
	var decoder io.Reader
	switch ext {
	case ".gz":
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		decoder = gz
	case ".zip":
		zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(zipReader.File) == 0 {
			return nil, ErrEmptyArchive
		}

		// read the first file in the zip file
		rc, err := zipReader.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		decoder = rc
	case ".7z":
		r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, ErrEmptyArchive
		}

		// read the first file in the archive
		rc, err := r.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		decoder = rc
	default:
		return data, nil
	}

	return io.ReadAll(decoder)
}
