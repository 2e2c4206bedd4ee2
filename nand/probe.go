package nand

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	magicSFFS    uint32 = 0x53464653 // "SFFS"
	magicBangSFS uint32 = 0x53465321 // "SFS!" (byte-swapped "!SFS")
)

// detectVariant maps a dump's total length to a dump variant.
func detectVariant(length int64) (Variant, error) {
	switch length {
	case imageSize(NoECC):
		return NoECC, nil
	case imageSize(ECC):
		return ECC, nil
	case imageSize(BootMii):
		return BootMii, nil
	default:
		return 0, fmt.Errorf("%w: %d bytes", ErrUnknownImageSize, length)
	}
}

// detectFamily reads the filesystem magic at cluster 0x7FF0 and maps
// it to a filesystem family, rejecting a Wii U magic in a BootMii
// dump.
func detectFamily(r io.ReaderAt, v Variant, g Geometry) (Family, error) {
	offset := g.ClusterStride * 0x7FF0

	var buf [4]byte
	if _, err := r.ReadAt(buf[:], offset); err != nil {
		return 0, fmt.Errorf("%w: reading filesystem magic: %v", ErrImageIO, err)
	}

	magic := binary.BigEndian.Uint32(buf[:])

	switch magic {
	case magicSFFS:
		return Wii, nil
	case magicBangSFS:
		if v == BootMii {
			return 0, ErrIncompatibleVariant
		}
		return WiiU, nil
	default:
		return 0, fmt.Errorf("%w: magic %#08x", ErrUnknownFilesystem, magic)
	}
}
