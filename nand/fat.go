package nand

import "fmt"

const (
	// fatHeaderEntries compensates for the 12-byte magic/generation/
	// padding prefix at the start of the superblock's FAT, expressed
	// as a count of 2-byte entries.
	fatHeaderEntries uint32 = 6

	fatEntriesPerGap int64 = 1024
	fatEntrySize     int64 = 2

	// EndOfChain is the lowest FAT value treated as terminating a
	// cluster chain. 0xFFFB specifically marks a bad/unused cluster,
	// but any value at or above EndOfChain is treated uniformly as
	// end-of-chain.
	EndOfChain uint16 = 0xFFF0
)

// readFAT decodes the next-cluster pointer for cluster c,
// compensating for the FAT's own ECC-interleave stride, distinct
// from the FST's.
func (img *Image) readFAT(c uint16) (uint16, error) {
	entry := int64(uint32(c) + fatHeaderEntries)
	offset := img.fatOffset + ((entry/fatEntriesPerGap)*img.geometry.FATStride+entry)*fatEntrySize

	var b [2]byte
	if _, err := img.r.ReadAt(b[:], offset); err != nil {
		return 0, fmt.Errorf("%w: reading FAT entry for cluster %d: %v", ErrImageIO, c, err)
	}

	return decodeBE16(b[:]), nil
}
