package nand

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"testing"
)

var testKey = []byte("0123456789abcdef")

func encryptCluster(t *testing.T, plaintext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(testKey)
	if err != nil {
		t.Fatal(err)
	}
	iv := make([]byte, block.BlockSize())
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)
	return ciphertext
}

// layoutCluster interleaves page payload with spareSize bytes of
// spare/ECC filler, mimicking the on-disk page stride for a non-NoECC
// geometry.
func layoutCluster(g Geometry, ciphertext []byte) []byte {
	var buf []byte
	for i := int64(0); i < g.ClusterPages; i++ {
		page := ciphertext[i*g.PageSize : (i+1)*g.PageSize]
		buf = append(buf, page...)
		if g.PageStride > g.PageSize {
			buf = append(buf, make([]byte, g.PageStride-g.PageSize)...)
		}
	}
	return buf
}

func TestReadClusterNoECC(t *testing.T) {
	g := newGeometry(NoECC)

	plaintext := bytes.Repeat([]byte{0xAB}, int(g.ClusterPayload))
	ciphertext := encryptCluster(t, plaintext)
	buf := layoutCluster(g, ciphertext)

	block, err := aes.NewCipher(testKey)
	if err != nil {
		t.Fatal(err)
	}
	img := &Image{r: bytes.NewReader(buf), geometry: g, block: block}

	got, err := img.readCluster(0)
	if err != nil {
		t.Fatalf("readCluster: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("readCluster returned different plaintext")
	}
}

func TestReadClusterECCDiscardsSpare(t *testing.T) {
	g := newGeometry(ECC)

	plaintext := make([]byte, g.ClusterPayload)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}
	ciphertext := encryptCluster(t, plaintext)
	buf := layoutCluster(g, ciphertext)

	// Corrupt the spare bytes to make sure they're genuinely ignored,
	// not accidentally folded into the decrypted payload.
	for i := int64(0); i < g.ClusterPages; i++ {
		spareStart := i*g.PageStride + g.PageSize
		for j := spareStart; j < i*g.PageStride+g.PageStride; j++ {
			buf[j] = 0xFF
		}
	}

	block, err := aes.NewCipher(testKey)
	if err != nil {
		t.Fatal(err)
	}
	img := &Image{r: bytes.NewReader(buf), geometry: g, block: block}

	got, err := img.readCluster(0)
	if err != nil {
		t.Fatalf("readCluster: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("readCluster returned different plaintext with spare bytes corrupted")
	}
}
