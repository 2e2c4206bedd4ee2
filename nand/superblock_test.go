package nand

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// testSuperblockGeometry returns a Geometry scaled down so synthetic
// superblock scans don't require gigabyte-sized test buffers; only
// ClusterStride and TotalClusters matter to locateSuperblock.
func testSuperblockGeometry(totalClusters int64) Geometry {
	return Geometry{ClusterStride: 1, TotalClusters: totalClusters}
}

// writeSlot writes a magic+generation header at a given slot index
// within the Wii superblock range.
func writeSlot(buf []byte, slot int, magic, gen uint32) {
	offset := wiiSuperblockStartCluster + int64(slot)*superblockWindowClusters
	binary.BigEndian.PutUint32(buf[offset:], magic)
	binary.BigEndian.PutUint32(buf[offset+4:], gen)
}

func TestLocateSuperblockPicksHighestStrictlyIncreasingGeneration(t *testing.T) {
	g := testSuperblockGeometry(wiiSuperblockStartCluster + superblockWindowClusters*8)
	buf := make([]byte, g.TotalClusters)

	gens := []uint32{1, 2, 3, 2, 0, 0}
	for i, gen := range gens {
		writeSlot(buf, i, magicWiiSuperblock, gen)
	}

	loc, err := locateSuperblock(bytes.NewReader(buf), Wii, g)
	if err != nil {
		t.Fatalf("locateSuperblock: %v", err)
	}

	want := wiiSuperblockStartCluster + 2*superblockWindowClusters
	if loc != want {
		t.Errorf("locateSuperblock = %#x, want %#x (the generation-3 slot)", loc, want)
	}
}

func TestLocateSuperblockSkipsBadMagic(t *testing.T) {
	g := testSuperblockGeometry(wiiSuperblockStartCluster + superblockWindowClusters*4)
	buf := make([]byte, g.TotalClusters)

	writeSlot(buf, 0, magicWiiSuperblock, 1)
	writeSlot(buf, 1, 0xdeadbeef, 99) // bad magic, must not become "best"
	writeSlot(buf, 2, magicWiiSuperblock, 2)

	loc, err := locateSuperblock(bytes.NewReader(buf), Wii, g)
	if err != nil {
		t.Fatalf("locateSuperblock: %v", err)
	}

	want := wiiSuperblockStartCluster + 2*superblockWindowClusters
	if loc != want {
		t.Errorf("locateSuperblock = %#x, want %#x", loc, want)
	}
}

func TestLocateSuperblockNoneValid(t *testing.T) {
	g := testSuperblockGeometry(wiiSuperblockStartCluster + superblockWindowClusters*4)
	buf := make([]byte, g.TotalClusters)

	if _, err := locateSuperblock(bytes.NewReader(buf), Wii, g); !errors.Is(err, ErrNoSuperblock) {
		t.Errorf("locateSuperblock error = %v, want ErrNoSuperblock", err)
	}
}

func TestFATAndFSTOffsetsDerivedFromSlot(t *testing.T) {
	g := newGeometry(NoECC)
	const slot = 0x1000

	if got, want := fatOffset(slot), int64(slot+0x0C); got != want {
		t.Errorf("fatOffset = %#x, want %#x", got, want)
	}
	if got, want := fstOffset(slot, g), int64(slot+0x0C+4*g.ClusterStride); got != want {
		t.Errorf("fstOffset = %#x, want %#x", got, want)
	}
}
