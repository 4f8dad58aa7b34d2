package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// MemoryRepository implements storage.MemoryRepository for BadgerDB.
type MemoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.MemoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository(backend *Backend) (*MemoryRepository, error) {
	idSeq, err := backend.GetSequence(memRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &MemoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *MemoryRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *MemoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMemoryRecords adds one or more memory records to storage.
func (r *MemoryRepository) AddMemoryRecords(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			record.Id = core.ID(nextID)

			record.InsertedAt = time.Now().UTC()
			record.UpdatedAt = record.InsertedAt

			// Store primary record
			key := makeMemoryRecordKey(record.Id)
			value := storage.MarshalMemoryRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update recency index
			dateKey := makeMemoryDateKey(record.Timestamp, record.Id)
			if err := tx.Set(dateKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateMemoryRecords updates existing memory records.
func (r *MemoryRepository) UpdateMemoryRecords(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeMemoryRecordKey(record.Id)

			// Read old record to detect changes
			old, err := r.readMemoryRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Update timestamp
			record.UpdatedAt = time.Now().UTC()

			// Store updated record
			value := storage.MarshalMemoryRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update recency index if timestamp changed
			if !old.Timestamp.Equal(record.Timestamp) {
				oldDateKey := makeMemoryDateKey(old.Timestamp, old.Id)
				if err := tx.Delete(oldDateKey); err != nil {
					return err
				}
				newDateKey := makeMemoryDateKey(record.Timestamp, record.Id)
				if err := tx.Set(newDateKey, storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetMemoryRecords retrieves multiple memory records by their IDs.
func (r *MemoryRepository) GetMemoryRecords(ctx context.Context, ids ...core.ID) ([]*core.MemoryRecord, error) {
	var records []*core.MemoryRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readMemoryRecord(tx, makeMemoryRecordKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetRecentMemoryRecords retrieves the N most recent memory records,
// ordered by timestamp descending.
func (r *MemoryRepository) GetRecentMemoryRecords(ctx context.Context, limit int) ([]*core.MemoryRecord, error) {
	if limit < 1 {
		return nil, storage.ErrInvalidQuery
	}

	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(memRecordDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// The recency index sorts lexicographically by timestamp; collect
		// in order, then take the tail.
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	slices.Reverse(ids)

	return r.GetMemoryRecords(ctx, ids...)
}

// AllMemoryRecordIDs returns the IDs of all stored memory records.
func (r *MemoryRepository) AllMemoryRecordIDs(ctx context.Context) ([]core.ID, error) {
	var ids []core.ID

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(memRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.MemoryRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalMemoryRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			ids = append(ids, record.Id)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.Sort(ids)
	return ids, nil
}

// FindSimilar finds memory records similar to the given vector.
func (r *MemoryRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.MemoryMatch, error) {
	var matches []*core.MemoryMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(memRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.MemoryRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalMemoryRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}

			// Skip records without embeddings
			if len(record.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, record.Vector)
			if similarity >= minSimilarity {
				matches = append(matches, &core.MemoryMatch{
					Record: record,
					Score:  similarity,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending; stable so equal scores keep key order.
	slices.SortStableFunc(matches, func(a, b *core.MemoryMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// readMemoryRecord reads a single record by key, returning nil if absent.
func (r *MemoryRepository) readMemoryRecord(tx *badger.Txn, key []byte) (*core.MemoryRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.MemoryRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalMemoryRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
