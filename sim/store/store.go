// Package store persists world state in a badger key-value database:
// entities under "ent:", contradictions under "ctr:", and whole-world
// snapshots under "snap:". The database directory can be archived with
// Backup for offline keeping.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dgraph-io/badger/v4"

	"github.com/babylon-sim/babylon/sim/dialectics"
	"github.com/babylon-sim/babylon/sim/entity"
	"github.com/babylon-sim/babylon/sim/perf"
)

// ErrNotFound reports a missing key.
var ErrNotFound = errors.New("store: not found")

// Key prefixes.
const (
	entityPrefix        = "ent:"
	contradictionPrefix = "ctr:"
	snapshotPrefix      = "snap:"
)

// Snapshot is a whole-world checkpoint at a simulation clock value.
type Snapshot struct {
	Clock          int64                       `json:"clock"`
	Gini           float64                     `json:"gini_coefficient"`
	Unemployment   float64                     `json:"unemployment_rate"`
	Growth         float64                     `json:"growth_rate"`
	Stability      float64                     `json:"stability_index"`
	Repression     float64                     `json:"repression_level"`
	Entities       []*entity.Entity            `json:"entities"`
	Contradictions []*dialectics.Contradiction `json:"contradictions"`
}

// Store wraps a badger database. A perf collector may be attached to record
// query latencies.
type Store struct {
	db        *badger.DB
	dir       string
	collector *perf.Collector
	now       func() time.Time
}

// Open opens (or creates) the store at dir. Opening retries with
// exponential backoff: the directory lock of a just-closed process is a
// transient failure.
func Open(dir string) (*Store, error) {
	op := func() (*badger.DB, error) {
		return badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	}
	db, err := backoff.Retry(context.Background(), op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", dir, err)
	}
	return &Store{db: db, dir: dir, now: time.Now}, nil
}

// WithCollector attaches a perf collector for query latency recording.
func (s *Store) WithCollector(c *perf.Collector) *Store {
	s.collector = c
	return s
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutEntity stores an entity as JSON.
func (s *Store) PutEntity(e *entity.Entity) error {
	return s.put(entityPrefix+e.ID, e)
}

// GetEntity loads an entity by ID. Returns ErrNotFound when absent.
func (s *Store) GetEntity(id string) (*entity.Entity, error) {
	var out entity.Entity
	if err := s.get(entityPrefix+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutContradiction stores a contradiction as JSON.
func (s *Store) PutContradiction(c *dialectics.Contradiction) error {
	return s.put(contradictionPrefix+c.ID, c)
}

// GetContradiction loads a contradiction by ID. Returns ErrNotFound when absent.
func (s *Store) GetContradiction(id string) (*dialectics.Contradiction, error) {
	var out dialectics.Contradiction
	if err := s.get(contradictionPrefix+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutSnapshot stores a world checkpoint keyed by clock. Keys are
// zero-padded so lexicographic order matches clock order.
func (s *Store) PutSnapshot(snap *Snapshot) error {
	return s.put(fmt.Sprintf("%s%020d", snapshotPrefix, snap.Clock), snap)
}

// LatestSnapshot returns the snapshot with the highest clock, or
// ErrNotFound when none exist.
func (s *Store) LatestSnapshot() (*Snapshot, error) {
	start := s.now()
	var out *Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse-seek from just past the snapshot range.
		seek := []byte(snapshotPrefix + "~")
		it.Seek(seek)
		if !it.ValidForPrefix([]byte(snapshotPrefix)) {
			return ErrNotFound
		}
		return it.Item().Value(func(val []byte) error {
			out = &Snapshot{}
			return json.Unmarshal(val, out)
		})
	})
	s.recordLatency(start)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) put(key string, v any) error {
	start := s.now()
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), buf)
	})
	s.recordLatency(start)
	return err
}

func (s *Store) get(key string, v any) error {
	start := s.now()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	s.recordLatency(start)
	return err
}

func (s *Store) recordLatency(start time.Time) {
	if s.collector != nil {
		s.collector.RecordQueryLatency(float64(s.now().Sub(start).Microseconds()) / 1000)
	}
}
