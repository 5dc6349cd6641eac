// Package zipwrap wraps and unwraps the single-entry ZIP container
// archive2dna optionally stores the payload in before masking, to cut
// down the number of segments a low-entropy archive needs.
//
// Grounded in archive2dna's package.py (Container.load_binary's
// auto_zip branch and write_binary's matching unzip), using the
// standard archive/zip package — no ZIP library appears anywhere else
// in the retrieval pack, so there is no ecosystem alternative to prefer
// over the standard library here.
package zipwrap

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
)

// EntryName is the fixed name every wrapped payload is stored under.
const EntryName = "information_package"

// ErrMissingEntry is returned when an archive doesn't contain EntryName.
var ErrMissingEntry = errors.New("zipwrap: archive missing information_package entry")

// Wrap returns data stored as the single EntryName member of a new ZIP
// archive.
func Wrap(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	entry, err := w.Create(EntryName)
	if err != nil {
		return nil, err
	}
	if _, err := entry.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unwrap reads the EntryName member back out of a ZIP archive produced
// by Wrap.
func Unwrap(archive []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}
	for _, f := range r.File {
		if f.Name != EntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrMissingEntry
}
