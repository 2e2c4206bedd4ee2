package nand

// Variant identifies how a dump's pages are laid out on disk.
type Variant int

const (
	// NoECC dumps store pages back to back with no spare area.
	NoECC Variant = iota
	// ECC dumps interleave a 64-byte spare area after every page.
	ECC
	// BootMii dumps are ECC dumps with a 0x400-byte trailer holding
	// an inline AES key.
	BootMii
)

func (v Variant) String() string {
	switch v {
	case NoECC:
		return "NoECC"
	case ECC:
		return "ECC"
	case BootMii:
		return "BootMii"
	default:
		return "unknown"
	}
}

// Family identifies which on-flash filesystem a dump contains.
type Family int

const (
	// Wii is the SFFS filesystem used by the original console.
	Wii Family = iota
	// WiiU is the SFS! filesystem used by the successor console.
	WiiU
)

func (f Family) String() string {
	switch f {
	case Wii:
		return "Wii"
	case WiiU:
		return "WiiU"
	default:
		return "unknown"
	}
}

const (
	pageSize     int64 = 2048
	spareSize    int64 = 64
	clusterPages int64 = 8

	// bootMiiTrailer is the size of the inline-key trailer appended
	// to a BootMii dump.
	bootMiiTrailer int64 = 0x400

	// totalClusters is the total number of clusters in a dump.
	// 0x10000 is the 16-bit address space a cluster/FST/FAT
	// index can name, not the actual cluster count: a NoECC image is
	// 0x20000000 bytes at page_stride 2048, which only holds together
	// with 0x8000 total clusters, matching the well known real dump
	// sizes for both consoles.
	totalClusters int64 = 0x8000

	// Superblock slots are 16-cluster windows.
	superblockWindowClusters int64 = 16

	// Wii superblock slots begin at cluster 0x7F00; Wii U slots
	// begin at cluster 0x7C00. Both scans end at totalClusters.
	wiiSuperblockStartCluster  int64 = 0x7F00
	wiiUSuperblockStartCluster int64 = 0x7C00
)

// Geometry holds the page/cluster layout and ECC-interleave strides
// derived from a dump variant. It is constant for the life of one
// extraction.
type Geometry struct {
	PageSize       int64
	SpareSize      int64
	PageStride     int64
	ClusterPages   int64
	ClusterPayload int64
	ClusterStride  int64
	TotalClusters  int64

	// FSTStride is the number of 32-byte ECC-gap units inserted
	// every 64 FST records (0 for NoECC, 2 otherwise).
	FSTStride int64

	// FATStride is the number of 2-byte ECC-gap units inserted every
	// 1024 FAT entries (0 for NoECC, 32 otherwise).
	FATStride int64
}

// newGeometry derives the page/cluster geometry for a dump variant.
func newGeometry(v Variant) Geometry {
	g := Geometry{
		PageSize:      pageSize,
		SpareSize:     spareSize,
		ClusterPages:  clusterPages,
		TotalClusters: totalClusters,
	}

	if v == NoECC {
		g.PageStride = pageSize
	} else {
		g.PageStride = pageSize + spareSize
		g.FSTStride = 2
		g.FATStride = 32
	}

	g.ClusterPayload = pageSize * clusterPages
	g.ClusterStride = g.PageStride * clusterPages

	return g
}

// imageSize returns the expected total byte length of a dump of the
// given variant.
func imageSize(v Variant) int64 {
	g := newGeometry(v)
	size := g.ClusterStride * g.TotalClusters
	if v == BootMii {
		size += bootMiiTrailer
	}
	return size
}

// superblockStartCluster returns the first cluster of the rotating
// superblock range for a filesystem family.
func superblockStartCluster(f Family) int64 {
	if f == Wii {
		return wiiSuperblockStartCluster
	}
	return wiiUSuperblockStartCluster
}
