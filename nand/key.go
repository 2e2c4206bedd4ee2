package nand

import (
	"io"

	"github.com/spf13/afero"
)

const (
	keySize = 16

	// OTPFile is the well-known OTP dump consulted for the AES key,
	// resolved relative to the working directory.
	OTPFile = "otp.bin"
	// KeysFile is the well-known standalone key dump consulted as a
	// last resort for Wii images.
	KeysFile = "keys.bin"

	bootMiiKeyOffset int64 = 0x21000158
	otpWiiOffset     int64 = 0x058
	otpWiiUOffset    int64 = 0x170
	keysFileOffset   int64 = 0x158
)

// resolveKey tries each key source in priority order and returns the
// first 16-byte key produced: the BootMii inline trailer, then
// otp.bin, then (Wii only) keys.bin.
func resolveKey(fsys afero.Fs, r io.ReaderAt, v Variant, f Family) ([]byte, error) {
	if v == BootMii {
		key := make([]byte, keySize)
		if _, err := r.ReadAt(key, bootMiiKeyOffset); err == nil {
			return key, nil
		}
	}

	otpOffset := otpWiiOffset
	if f != Wii {
		otpOffset = otpWiiUOffset
	}
	if key, ok := readKeyFile(fsys, OTPFile, otpOffset); ok {
		return key, nil
	}

	if f == Wii {
		if key, ok := readKeyFile(fsys, KeysFile, keysFileOffset); ok {
			return key, nil
		}
	}

	return nil, ErrKeyUnavailable
}

// readKeyFile reads 16 bytes at offset from path. A missing file or
// short read is not fatal on its own; the caller moves on to the
// next key source.
func readKeyFile(fsys afero.Fs, path string, offset int64) ([]byte, bool) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	key := make([]byte, keySize)
	if _, err := f.ReadAt(key, offset); err != nil {
		return nil, false
	}

	return key, true
}
