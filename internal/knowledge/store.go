package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/logger"
)

const (
	indexFileName    = "vectors.index"
	metadataFileName = "metadata.json"

	// DefaultDimension matches the embedding model used across the store's
	// lifetime. Mixing embedding schemes silently corrupts all distance
	// comparisons, so the dimension is validated on every load and append.
	DefaultDimension = 768
)

// Config holds knowledge store settings.
type Config struct {
	Dir       string
	Dimension int
}

// Store is a durable mapping from an integer ordinal to an embedding vector
// and its SupplierRecord metadata. The vector index and the metadata sequence
// stay in lock-step length and order; every append goes to both structures
// in the same call. Persistence rewrites both files as complete snapshots.
//
// Single-writer: concurrent processes sharing one persistence directory can
// interleave overwrites and break the lock-step invariant.
type Store struct {
	dir          string
	indexPath    string
	metadataPath string
	dim          int
	index        *flatIndex
	records      []domain.SupplierRecord
	log          *logger.Logger
}

// Open loads the store from cfg.Dir, or initializes an empty one when no
// persisted files are present. Files that exist but are unreadable, corrupt,
// of the wrong dimension, or out of lock-step fail construction: an existing
// history is never silently reset.
func Open(cfg Config, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetDefault()
	}
	dim := cfg.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{
		dir:          cfg.Dir,
		indexPath:    filepath.Join(cfg.Dir, indexFileName),
		metadataPath: filepath.Join(cfg.Dir, metadataFileName),
		dim:          dim,
		log:          log,
	}

	indexExists := fileExists(s.indexPath)
	metaExists := fileExists(s.metadataPath)

	switch {
	case indexExists && metaExists:
		index, err := readIndexFile(s.indexPath, dim)
		if err != nil {
			return nil, err
		}
		records, err := readMetadataFile(s.metadataPath)
		if err != nil {
			return nil, err
		}
		if index.Size() != len(records) {
			return nil, fmt.Errorf("%w: index has %d vectors, metadata has %d records",
				ErrCorruptStore, index.Size(), len(records))
		}
		s.index = index
		s.records = records
		log.WithField("records", len(records)).Info("knowledge store loaded")
	case !indexExists && !metaExists:
		s.index = newFlatIndex(dim)
		log.WithField("dir", cfg.Dir).Info("knowledge store initialized empty")
	default:
		// One artifact without the other means a previous write was torn;
		// refusing to open is the only way to preserve what remains.
		return nil, fmt.Errorf("%w: found %s without its companion file",
			ErrCorruptStore, presentFile(indexExists))
	}

	return s, nil
}

func presentFile(indexExists bool) string {
	if indexExists {
		return indexFileName
	}
	return metadataFileName
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readMetadataFile(path string) ([]domain.SupplierRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read metadata: %v", ErrCorruptStore, err)
	}
	var records []domain.SupplierRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode metadata: %v", ErrCorruptStore, err)
	}
	return records, nil
}

// Dimension returns the store's configured vector dimensionality.
func (s *Store) Dimension() int {
	return s.dim
}

// Size returns the number of persisted records.
func (s *Store) Size() int {
	return len(s.records)
}

// Add appends one record and its vector in lock-step, then persists both
// artifacts. When persistence fails the in-memory append stands, the two
// structures stay aligned, and the error is reported to the caller.
func (s *Store) Add(record domain.SupplierRecord, vector []float32) error {
	if err := s.index.Add(vector); err != nil {
		return err
	}
	s.records = append(s.records, record)
	return s.save()
}

// AddBatch appends records and vectors pairwise in order, then persists both
// artifacts once. len(records) must equal len(vectors).
func (s *Store) AddBatch(records []domain.SupplierRecord, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("knowledge: %d records but %d vectors", len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil
	}
	if err := s.index.AddBatch(vectors); err != nil {
		return err
	}
	s.records = append(s.records, records...)
	return s.save()
}

// Neighbor is one nearest-neighbor hit: the record ordinal and its squared
// L2 distance from the query vector.
type Neighbor struct {
	Ordinal  int
	Distance float64
}

// Nearest returns up to k neighbors ordered by ascending distance. k is
// clamped to the store size; an empty store yields an empty slice.
func (s *Store) Nearest(vector []float32, k int) ([]Neighbor, error) {
	ids, dists, err := s.index.Search(vector, k)
	if err != nil {
		return nil, err
	}
	neighbors := make([]Neighbor, len(ids))
	for i := range ids {
		neighbors[i] = Neighbor{Ordinal: ids[i], Distance: dists[i]}
	}
	return neighbors, nil
}

// Record returns a copy of the record at ordinal i.
func (s *Store) Record(i int) (domain.SupplierRecord, bool) {
	if i < 0 || i >= len(s.records) {
		return domain.SupplierRecord{}, false
	}
	return s.records[i], true
}

// AllRecords returns an independent copy of the metadata sequence.
func (s *Store) AllRecords() []domain.SupplierRecord {
	snapshot := make([]domain.SupplierRecord, len(s.records))
	copy(snapshot, s.records)
	return snapshot
}

// Stats aggregates record counts by category and cooperation status.
type Stats struct {
	TotalCount        int            `json:"total_count"`
	Categories        map[string]int `json:"categories"`
	CooperationStatus map[string]int `json:"cooperation_status"`
	LastUpdated       string         `json:"last_updated"`
}

// Statistics computes aggregate counts over the current records.
func (s *Store) Statistics() Stats {
	stats := Stats{
		TotalCount:        len(s.records),
		Categories:        make(map[string]int),
		CooperationStatus: make(map[string]int),
		LastUpdated:       time.Now().Format("2006-01-02 15:04:05"),
	}
	for _, rec := range s.records {
		category := rec.Category
		if category == "" {
			category = "uncategorized"
		}
		status := string(rec.CooperationStatus)
		if status == "" {
			status = string(domain.StatusNotContacted)
		}
		stats.Categories[category]++
		stats.CooperationStatus[status]++
	}
	return stats
}

// save rewrites both persisted artifacts as full snapshots. Additions are
// infrequent and batched, so snapshot-per-write buys recoverability at a
// write-throughput cost that does not matter here.
func (s *Store) save() error {
	if err := s.index.WriteFile(s.indexPath); err != nil {
		s.log.WithField("path", s.indexPath).WithError(err).Error("failed to persist vector index")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode metadata: %v", ErrPersistence, err)
	}
	tmp := s.metadataPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.WithField("path", s.metadataPath).WithError(err).Error("failed to persist metadata")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.metadataPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
