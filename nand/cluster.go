package nand

import (
	"bytes"
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/connesc/cipherio"
)

// readCluster reads and AES-CBC-decrypts the logical 16 KiB cluster
// at index, reassembling it from eight pages with any spare/ECC bytes
// discarded. Each cluster is decrypted independently with a
// sixteen-zero-byte IV: the on-device driver carries no state across
// cluster boundaries.
func (img *Image) readCluster(index uint16) ([]byte, error) {
	g := img.geometry

	raw := make([]byte, g.ClusterPayload)
	page := make([]byte, g.PageStride)

	sr := io.NewSectionReader(img.r, int64(index)*g.ClusterStride, g.ClusterStride)

	for i := int64(0); i < g.ClusterPages; i++ {
		if _, err := io.ReadFull(sr, page); err != nil {
			return nil, fmt.Errorf("%w: reading cluster %d page %d: %v", ErrImageIO, index, i, err)
		}
		copy(raw[i*g.PageSize:(i+1)*g.PageSize], page[:g.PageSize])
	}

	iv := make([]byte, img.block.BlockSize())
	cbc := cipher.NewCBCDecrypter(img.block, iv)

	out := make([]byte, g.ClusterPayload)
	dr := cipherio.NewBlockReader(bytes.NewReader(raw), cbc)
	if _, err := io.ReadFull(dr, out); err != nil {
		return nil, fmt.Errorf("%w: decrypting cluster %d: %v", ErrImageIO, index, err)
	}

	return out, nil
}
