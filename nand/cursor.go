package nand

import "io"

// cursor is a minimal sequential reader over an io.ReaderAt, used by
// the FST decoder so it reads field-by-field the way the on-disk
// layout is described, including skipping over the ECC gap without
// having to special-case it in every caller.
type cursor struct {
	r   io.ReaderAt
	pos int64
}

func (c *cursor) read(p []byte) (int, error) {
	n, err := c.r.ReadAt(p, c.pos)
	c.pos += int64(n)
	return n, err
}

func (c *cursor) skip(n int64) {
	c.pos += n
}
