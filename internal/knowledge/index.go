package knowledge

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

const (
	// indexMagic identifies the vector index file format ("SMVI").
	indexMagic   uint32 = 0x534D5649
	indexVersion uint32 = 1
)

// flatIndex is a brute-force vector index over squared L2 distance. Vectors
// are stored row-major in a single slice; ordinal i occupies
// vectors[i*dim : (i+1)*dim].
type flatIndex struct {
	dim     int
	vectors []float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

// Size returns the number of stored vectors.
func (ix *flatIndex) Size() int {
	if ix.dim == 0 {
		return 0
	}
	return len(ix.vectors) / ix.dim
}

// Add appends a single vector.
func (ix *flatIndex) Add(vec []float32) error {
	if len(vec) != ix.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), ix.dim)
	}
	ix.vectors = append(ix.vectors, vec...)
	return nil
}

// AddBatch appends vectors in order. All vectors are validated before any is
// appended, so a bad vector leaves the index unchanged.
func (ix *flatIndex) AddBatch(vecs [][]float32) error {
	for i, vec := range vecs {
		if len(vec) != ix.dim {
			return fmt.Errorf("%w: vector %d has %d values, want %d", ErrDimensionMismatch, i, len(vec), ix.dim)
		}
	}
	for _, vec := range vecs {
		ix.vectors = append(ix.vectors, vec...)
	}
	return nil
}

// Search returns up to k (ordinal, distance) pairs ordered by ascending
// squared L2 distance. k is clamped to the index size; an empty index yields
// empty results.
func (ix *flatIndex) Search(query []float32, k int) ([]int, []float64, error) {
	if len(query) != ix.dim {
		return nil, nil, fmt.Errorf("%w: query has %d values, want %d", ErrDimensionMismatch, len(query), ix.dim)
	}
	n := ix.Size()
	if n == 0 || k <= 0 {
		return []int{}, []float64{}, nil
	}
	if k > n {
		k = n
	}

	distances := make([]float64, n)
	for i := 0; i < n; i++ {
		row := ix.vectors[i*ix.dim : (i+1)*ix.dim]
		var sum float64
		for j, q := range query {
			d := float64(q) - float64(row[j])
			sum += d * d
		}
		distances[i] = sum
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})

	ids := make([]int, k)
	dists := make([]float64, k)
	for i := 0; i < k; i++ {
		ids[i] = order[i]
		dists[i] = distances[order[i]]
	}
	return ids, dists, nil
}

// WriteFile serializes the index to path via a temp file and rename, so a
// failed write never truncates an existing index.
func (ix *flatIndex) WriteFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}

	w := bufio.NewWriter(f)
	header := []uint32{indexMagic, indexVersion, uint32(ix.dim), uint32(ix.Size())}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to write index header: %w", err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, ix.vectors); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write index vectors: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to flush index file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

// readIndexFile loads an index from path, validating magic, version, and
// dimension against expectDim.
func readIndexFile(path string, expectDim int) (*flatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic, version, dim, count uint32
	for _, dst := range []*uint32{&magic, &version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("%w: truncated index header: %v", ErrCorruptStore, err)
		}
	}
	if magic != indexMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrCorruptStore, magic)
	}
	if version != indexVersion {
		return nil, fmt.Errorf("%w: unsupported index version %d", ErrCorruptStore, version)
	}
	if int(dim) != expectDim {
		return nil, fmt.Errorf("%w: index dimension %d, configured %d", ErrDimensionMismatch, dim, expectDim)
	}

	vectors := make([]float32, int(dim)*int(count))
	if err := binary.Read(r, binary.LittleEndian, vectors); err != nil {
		return nil, fmt.Errorf("%w: truncated vector data: %v", ErrCorruptStore, err)
	}

	return &flatIndex{dim: int(dim), vectors: vectors}, nil
}
