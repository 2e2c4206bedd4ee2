package nand

import (
	"io"

	"github.com/spf13/afero"
)

// Writer is the host filesystem writer the tree walker pushes decoded
// directories and files to. OSWriter below is the default
// implementation this repo ships.
type Writer interface {
	// MakeDirectory creates path, which must be idempotent: calling
	// it again for an existing directory is not an error.
	MakeDirectory(path string) error

	// WriteFile creates or overwrites path with exactly length bytes
	// read from r.
	WriteFile(path string, r io.Reader, length int64) error
}

// OSWriter is a Writer backed by an afero.Fs: an injectable filesystem
// rather than a direct os.* call, so tests can substitute
// afero.NewMemMapFs().
type OSWriter struct {
	fs afero.Fs
}

// NewOSWriter returns a Writer that creates directories and files
// through fs.
func NewOSWriter(fs afero.Fs) *OSWriter {
	return &OSWriter{fs: fs}
}

func (w *OSWriter) MakeDirectory(path string) error {
	return w.fs.MkdirAll(path, 0o755)
}

func (w *OSWriter) WriteFile(path string, r io.Reader, length int64) error {
	f, err := w.fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.CopyN(f, r, length); err != nil {
		return err
	}

	return nil
}
