package nand

import "errors"

// Sentinel errors returned by this package. Most are wrapped with
// additional context via fmt.Errorf("%w: ...") at the call site;
// ErrIncompatibleVariant, ErrKeyUnavailable and ErrNoSuperblock are
// returned as-is.
var (
	// ErrImageOpenError is returned when the image path passed to Open
	// cannot be opened.
	ErrImageOpenError = errors.New("nand: cannot open image")

	// ErrUnknownImageSize is returned when the image length does not
	// match any of the three recognised dump variants.
	ErrUnknownImageSize = errors.New("nand: unrecognised image size")

	// ErrUnknownFilesystem is returned when the magic at cluster
	// 0x7FF0 does not match a known filesystem family.
	ErrUnknownFilesystem = errors.New("nand: unrecognised filesystem magic")

	// ErrIncompatibleVariant is returned when a Wii U magic is found
	// in a BootMii-sized dump.
	ErrIncompatibleVariant = errors.New("nand: BootMii dumps cannot contain a Wii U filesystem")

	// ErrKeyUnavailable is returned when no key source produced a
	// 16-byte key.
	ErrKeyUnavailable = errors.New("nand: no AES key available")

	// ErrNoSuperblock is returned when no slot in the rotating
	// superblock range ever had a valid magic and generation.
	ErrNoSuperblock = errors.New("nand: no valid superblock found")

	// ErrImageIO is returned for unexpected short reads or I/O
	// failures against the image.
	ErrImageIO = errors.New("nand: image I/O error")

	// ErrWriterFailed is returned when the host filesystem writer
	// rejects a directory or file.
	ErrWriterFailed = errors.New("nand: writer error")

	// ErrCycleDetected is returned by the tree walker when the
	// sub/sib links form a cycle or exceed the maximum expected
	// recursion depth.
	ErrCycleDetected = errors.New("nand: cycle detected while walking file system table")
)
