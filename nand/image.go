package nand

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"go4.org/readerutil"
)

// partSuffix matches the ".000"-style numeric suffix used by dump
// tools that split a capture across multiple files to stay under a
// capturing filesystem's 4 GiB ceiling.
var partSuffix = regexp.MustCompile(`^\.(\d{3})$`)

// Image is an opened, fully probed NAND dump: the underlying bytes,
// the derived geometry and AES key, and the location of the chosen
// superblock's FAT and FST. All fields are established once at open
// time and are read-only thereafter; nothing here is package-level
// mutable state, so multiple Images can coexist safely (though
// concurrent use of a single Image is not supported).
type Image struct {
	r       readerutil.SizeReaderAt
	closers []io.Closer

	variant  Variant
	family   Family
	geometry Geometry

	key   []byte
	block cipher.Block

	superblockOffset int64
	fatOffset        int64
	fstOffset        int64
}

// Open opens the NAND dump at name (transparently following a
// "<name>.000", "<name>.001", … split-part chain if name is the first
// part), detects its variant and filesystem family, resolves the AES
// key, and locates the newest superblock.
func Open(name string, fsys afero.Fs) (*Image, error) {
	r, closers, err := openImageReader(name, fsys)
	if err != nil {
		return nil, err
	}

	img, err := newImage(r, fsys)
	if err != nil {
		for _, c := range closers {
			err = multierror.Append(err, c.Close())
		}
		return nil, err
	}
	img.closers = closers

	return img, nil
}

// newImage probes an already-opened reader. Split out from Open so
// tests can build an Image over an in-memory buffer.
func newImage(r readerutil.SizeReaderAt, fsys afero.Fs) (*Image, error) {
	variant, err := detectVariant(r.Size())
	if err != nil {
		return nil, err
	}

	geometry := newGeometry(variant)

	family, err := detectFamily(r, variant, geometry)
	if err != nil {
		return nil, err
	}

	key, err := resolveKey(fsys, r, variant, family)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("nand: invalid AES key: %w", err)
	}

	superblock, err := locateSuperblock(r, family, geometry)
	if err != nil {
		return nil, err
	}

	return &Image{
		r:                r,
		variant:          variant,
		family:           family,
		geometry:         geometry,
		key:              key,
		block:            block,
		superblockOffset: superblock,
		fatOffset:        fatOffset(superblock),
		fstOffset:        fstOffset(superblock, geometry),
	}, nil
}

// openImageReader opens name, following a numeric-suffixed split-part
// chain when name is the first part, and returns a single logical
// SizeReaderAt plus the handles to close.
func openImageReader(name string, fsys afero.Fs) (readerutil.SizeReaderAt, []io.Closer, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrImageOpenError, name, err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, nil, multierror.Append(err, f.Close())
	}

	var sr readerutil.SizeReaderAt = io.NewSectionReader(f, 0, info.Size())
	closers := []io.Closer{f}

	ext := filepath.Ext(name)
	m := partSuffix.FindStringSubmatch(ext)
	if m == nil || m[1] != "000" {
		return sr, closers, nil
	}

	parts := []readerutil.SizeReaderAt{sr}
	base := name[:len(name)-len(ext)]

	for i := 1; ; i++ {
		next := fmt.Sprintf("%s.%03d", base, i)

		pf, err := fsys.Open(next)
		if err != nil {
			break
		}

		pinfo, err := pf.Stat()
		if err != nil {
			err = multierror.Append(err, pf.Close())
			for _, c := range closers {
				err = multierror.Append(err, c.Close())
			}
			return nil, nil, err
		}

		closers = append(closers, pf)
		parts = append(parts, io.NewSectionReader(pf, 0, pinfo.Size()))
	}

	return readerutil.NewMultiReaderAt(parts...), closers, nil
}

// Close releases the image handle(s) and zeroes the key.
func (img *Image) Close() error {
	var err error
	for _, c := range img.closers {
		err = multierror.Append(err, c.Close())
	}
	for i := range img.key {
		img.key[i] = 0
	}
	return err
}

// Variant reports the dump variant detected at open time.
func (img *Image) Variant() Variant { return img.variant }

// Family reports the filesystem family detected at open time.
func (img *Image) Family() Family { return img.family }

// Geometry reports the derived page/cluster geometry.
func (img *Image) Geometry() Geometry { return img.geometry }
