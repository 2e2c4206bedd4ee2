package nand

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestFATIndexArithmetic(t *testing.T) {
	const fatStride = 32

	offset := func(entry int64) int64 {
		return ((entry/fatEntriesPerGap)*fatStride + entry) * fatEntrySize
	}

	for e := int64(1); e < 2050; e++ {
		delta := offset(e) - offset(e-1)
		if e%fatEntriesPerGap == 0 {
			if delta != fatEntrySize+fatStride*fatEntrySize {
				t.Errorf("offset(%d)-offset(%d) = %d, want %d", e, e-1, delta, fatEntrySize+fatStride*fatEntrySize)
			}
		} else if delta != fatEntrySize {
			t.Errorf("offset(%d)-offset(%d) = %d, want %d", e, e-1, delta, fatEntrySize)
		}
	}
}

func TestReadFATNoECC(t *testing.T) {
	// readFAT adds a fixed 6-entry header offset before indexing, so
	// build a buffer with 6 dummy entries followed by the real chain.
	entries := make([]uint16, 6+8)
	for i := 6; i < len(entries); i++ {
		entries[i] = uint16(i+1) + 1000
	}
	entries[len(entries)-1] = EndOfChain

	buf := make([]byte, len(entries)*2)
	for i, v := range entries {
		binary.BigEndian.PutUint16(buf[i*2:], v)
	}

	img := &Image{r: bytes.NewReader(buf), geometry: Geometry{FATStride: 0}}

	got, err := img.readFAT(0)
	if err != nil {
		t.Fatalf("readFAT(0): %v", err)
	}
	if want := entries[6]; got != want {
		t.Errorf("readFAT(0) = %#x, want %#x", got, want)
	}
}

func TestReadFATChainTerminates(t *testing.T) {
	// A short chain of 4 clusters ending in EndOfChain, laid out with
	// the NoECC (no gap) stride for simplicity.
	chain := []uint16{1, 2, 3, EndOfChain}
	entries := make([]uint16, 6+len(chain))
	copy(entries[6:], chain)

	buf := make([]byte, len(entries)*2)
	for i, v := range entries {
		binary.BigEndian.PutUint16(buf[i*2:], v)
	}

	img := &Image{r: bytes.NewReader(buf), geometry: Geometry{FATStride: 0}}

	c := uint16(0)
	steps := 0
	for c < EndOfChain {
		next, err := img.readFAT(c)
		if err != nil {
			t.Fatalf("readFAT(%d): %v", c, err)
		}
		c = next
		steps++
		if steps > len(chain) {
			t.Fatal("chain did not terminate within expected steps")
		}
	}
	if steps != len(chain) {
		t.Errorf("steps = %d, want %d", steps, len(chain))
	}
}
