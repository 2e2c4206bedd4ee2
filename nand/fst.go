package nand

import (
	"bytes"
	"fmt"
)

const (
	fstRecordSize    int64 = 32
	fstEntriesPerGap int64 = 64
	fstGapSize       int64 = 64

	// SentinelIndex marks the absence of a child/sibling/cluster
	// link in the FST and FAT.
	SentinelIndex uint16 = 0xFFFF
)

// Record is a decoded 32-byte FST entry.
type Record struct {
	Filename [12]byte
	Mode     byte
	Attr     byte
	Sub      uint16
	Sib      uint16
	Size     uint32
	UID      uint32
	GID      uint16
	X3       uint32
}

// IsDirectory reports whether the record describes a directory.
func (r Record) IsDirectory() bool { return r.Mode == 0 }

// IsFile reports whether the record describes a regular file.
func (r Record) IsFile() bool { return r.Mode == 1 }

// Name decodes the 12 raw filename bytes as a length-bounded byte
// string: up to 12 bytes, stopping early at the first NUL if one is
// present. On-disk names are not NUL-terminated, so a record whose
// 12th byte is non-zero legitimately yields a 12-byte name.
func (r Record) Name() string {
	n := bytes.IndexByte(r.Filename[:], 0)
	if n < 0 {
		n = len(r.Filename)
	}
	return string(r.Filename[:n])
}

// readFST decodes the FST record at entry, compensating for the
// 64-byte ECC gap inserted every 64 records and for the 32-bit size
// field that straddles that gap on the 64th record of every group.
func (img *Image) readFST(entry uint16) (Record, error) {
	e := int64(entry)
	offset := img.fstOffset + ((e/fstEntriesPerGap)*img.geometry.FSTStride+e)*fstRecordSize

	cur := &cursor{r: img.r, pos: offset}

	var rec Record
	if _, err := cur.read(rec.Filename[:]); err != nil {
		return Record{}, fmt.Errorf("%w: reading FST entry %d filename: %v", ErrImageIO, entry, err)
	}

	var modeAttr [2]byte
	if _, err := cur.read(modeAttr[:]); err != nil {
		return Record{}, fmt.Errorf("%w: reading FST entry %d mode/attr: %v", ErrImageIO, entry, err)
	}
	rec.Mode, rec.Attr = modeAttr[0], modeAttr[1]

	var subSib [4]byte
	if _, err := cur.read(subSib[:]); err != nil {
		return Record{}, fmt.Errorf("%w: reading FST entry %d sub/sib: %v", ErrImageIO, entry, err)
	}
	rec.Sub = decodeBE16(subSib[0:2])
	rec.Sib = decodeBE16(subSib[2:4])

	size, err := readStraddlingSize(cur, entry)
	if err != nil {
		return Record{}, fmt.Errorf("%w: reading FST entry %d size: %v", ErrImageIO, entry, err)
	}
	rec.Size = size

	var uidGidX3 [10]byte
	if _, err := cur.read(uidGidX3[:]); err != nil {
		return Record{}, fmt.Errorf("%w: reading FST entry %d trailer: %v", ErrImageIO, entry, err)
	}
	rec.UID = decodeBE32(uidGidX3[0:4])
	rec.GID = decodeBE16(uidGidX3[4:6])
	rec.X3 = decodeBE32(uidGidX3[6:10])

	rec.Mode &= 1

	return rec, nil
}

// readStraddlingSize reads the 32-bit size field, which is split
// across the 64-byte ECC gap when entry is the last of a group of 64.
func readStraddlingSize(cur *cursor, entry uint16) (uint32, error) {
	if (int64(entry)+1)%fstEntriesPerGap != 0 {
		var b [4]byte
		if _, err := cur.read(b[:]); err != nil {
			return 0, err
		}
		return decodeBE32(b[:]), nil
	}

	var hi, lo [2]byte
	if _, err := cur.read(hi[:]); err != nil {
		return 0, err
	}
	cur.skip(fstGapSize)
	if _, err := cur.read(lo[:]); err != nil {
		return 0, err
	}

	return decodeBE32([]byte{hi[0], hi[1], lo[0], lo[1]}), nil
}
