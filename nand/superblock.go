package nand

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	magicWiiSuperblock  uint32 = 0x53464653 // SFFS
	magicWiiUSuperblock uint32 = 0x21534653 // !SFS

	// superblockHeaderSize is the magic+generation+padding prefix
	// ahead of the FAT inside a superblock slot.
	superblockHeaderSize int64 = 0x0C
)

// locateSuperblock scans the rotating superblock range for the slot
// with the largest monotonically increasing generation number and
// returns its absolute byte offset.
//
// Slots rotate through the device wearing an incrementing generation
// each time; the newest valid copy is the last strictly-increasing
// sample before either a lower value or the end of the scan range. A
// slot with a bad magic is skipped, not fatal, and does not disturb
// the running best generation.
func locateSuperblock(r io.ReaderAt, f Family, g Geometry) (int64, error) {
	wantMagic := magicWiiSuperblock
	if f != Wii {
		wantMagic = magicWiiUSuperblock
	}

	start := superblockStartCluster(f) * g.ClusterStride
	end := g.TotalClusters * g.ClusterStride
	stride := superblockWindowClusters * g.ClusterStride

	var (
		bestGen uint32
		bestLoc int64 = -1
	)

	for loc := start; loc < end; loc += stride {
		var hdr [8]byte
		if _, err := r.ReadAt(hdr[:], loc); err != nil {
			return 0, fmt.Errorf("%w: reading superblock slot at %#x: %v", ErrImageIO, loc, err)
		}

		magic := binary.BigEndian.Uint32(hdr[0:4])
		if magic != wantMagic {
			continue
		}

		gen := binary.BigEndian.Uint32(hdr[4:8])
		if gen > bestGen {
			bestGen = gen
			bestLoc = loc
			continue
		}

		break
	}

	if bestLoc == -1 {
		return 0, ErrNoSuperblock
	}

	return bestLoc, nil
}

// fatOffset returns the absolute byte offset of the FAT for the
// superblock at slot.
func fatOffset(slot int64) int64 {
	return slot + superblockHeaderSize
}

// fstOffset returns the absolute byte offset of the FST for the
// superblock at slot, which immediately follows the 4-cluster FAT.
func fstOffset(slot int64, g Geometry) int64 {
	return fatOffset(slot) + 4*g.ClusterStride
}
