package nand

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// maxWalkDepth bounds the sibling/child recursion. A well-formed FST
// has at most a few thousand entries; this is deliberately generous
// while still catching a malformed image whose sub/sib links cycle.
const maxWalkDepth = 1 << 16

// rootName is the filename on-disk for FST entry 0.
const rootName = "/"

// Walker recursively descends the sub/sib links of an Image's FST,
// starting at entry 0, and pushes the decoded tree to a Writer. It
// holds no state beyond one walk and is not safe for concurrent use.
type Walker struct {
	img    *Image
	writer Writer
	logger *zap.SugaredLogger

	visited map[uint16]bool
}

// NewWalker returns a Walker that extracts img's file tree through w.
// If logger is nil, a no-op logger is used.
func NewWalker(img *Image, w Writer, logger *zap.SugaredLogger) *Walker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Walker{
		img:     img,
		writer:  w,
		logger:  logger,
		visited: make(map[uint16]bool),
	}
}

// Walk extracts the full tree rooted at FST entry 0 into outputRoot,
// creating outputRoot itself before descending.
func (wk *Walker) Walk(outputRoot string) error {
	if err := wk.writer.MakeDirectory(outputRoot); err != nil {
		return fmt.Errorf("%w: creating output root %s: %v", ErrWriterFailed, outputRoot, err)
	}
	return wk.visit(0, outputRoot, "", 0)
}

// visit decodes entry and, per the on-disk sibling order, recurses
// into its sibling before processing entry itself. This mirrors the
// on-device traversal exactly: siblings are visited as seen from the
// first child, with each entry's own directory/file materialised only
// after its later siblings have already been handled.
func (wk *Walker) visit(entry uint16, outputRoot, parent string, depth int) error {
	if depth > maxWalkDepth || wk.visited[entry] {
		return fmt.Errorf("%w: entry %d at depth %d", ErrCycleDetected, entry, depth)
	}
	wk.visited[entry] = true

	rec, err := wk.img.readFST(entry)
	if err != nil {
		return err
	}

	if rec.Sib != SentinelIndex {
		if err := wk.visit(rec.Sib, outputRoot, parent, depth+1); err != nil {
			return err
		}
	}

	switch {
	case rec.IsDirectory():
		return wk.visitDirectory(rec, outputRoot, parent, depth)
	case rec.IsFile():
		wk.visitFile(rec, outputRoot, parent)
		return nil
	default:
		wk.logger.Warnf("skipping FST entry %d (%q): unsupported mode %d", entry, rec.Name(), rec.Mode)
		return nil
	}
}

func (wk *Walker) visitDirectory(rec Record, outputRoot, parent string, depth int) error {
	name := rec.Name()

	newParent := parent
	if name != rootName {
		if parent != "" {
			newParent = parent + "/" + name
		} else {
			newParent = name
		}

		path := filepath.Join(outputRoot, newParent)
		if err := wk.writer.MakeDirectory(path); err != nil {
			return fmt.Errorf("%w: creating directory %s: %v", ErrWriterFailed, path, err)
		}
	}

	if rec.Sub == SentinelIndex {
		return nil
	}

	return wk.visit(rec.Sub, outputRoot, newParent, depth+1)
}

func (wk *Walker) visitFile(rec Record, outputRoot, parent string) {
	name := strings.ReplaceAll(rec.Name(), ":", "-")
	path := filepath.Join(outputRoot, parent, name)

	data, err := wk.readFileClusters(rec)
	if err != nil {
		wk.logger.Warnf("skipping file %s: %v", path, err)
		return
	}

	if err := wk.writer.WriteFile(path, bytes.NewReader(data), int64(rec.Size)); err != nil {
		wk.logger.Warnf("writer rejected %s: %v", path, err)
	}
}

// readFileClusters walks the FAT chain starting at rec.Sub, reading
// and decrypting each cluster in turn, and returns exactly rec.Size
// bytes of reassembled payload.
func (wk *Walker) readFileClusters(rec Record) ([]byte, error) {
	clusterCount := rec.Size/uint32(wk.img.geometry.ClusterPayload) + 1
	buf := make([]byte, int64(clusterCount)*wk.img.geometry.ClusterPayload)

	c := rec.Sub
	for i := uint32(0); c < EndOfChain; i++ {
		if i >= clusterCount {
			return nil, fmt.Errorf("FAT chain longer than expected size %d bytes", rec.Size)
		}

		data, err := wk.img.readCluster(c)
		if err != nil {
			return nil, err
		}
		copy(buf[int64(i)*wk.img.geometry.ClusterPayload:], data)

		c, err = wk.img.readFAT(c)
		if err != nil {
			return nil, err
		}
	}

	if int64(rec.Size) > int64(len(buf)) {
		return nil, fmt.Errorf("recorded size %d exceeds read payload %d", rec.Size, len(buf))
	}

	return buf[:rec.Size], nil
}
