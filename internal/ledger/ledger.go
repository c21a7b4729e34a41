// Package ledger persists the proofs a host has produced so they can be
// listed and re-verified later. Passwords are never stored.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	recordPrefix = "proof/"
	digestPrefix = "digest/"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("proof record not found")

// Record describes one completed proof.
type Record struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Steps     int           `json:"steps"`
	Digest    string        `json:"digest"`
	CreatedAt time.Time     `json:"created_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Config controls where the ledger lives.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM, for tests.
	InMemory bool
	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// Store is a badger-backed proof ledger. It is safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens or creates the ledger described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("ledger: path is required for a persistent ledger")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create ledger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores r. A missing ID or CreatedAt is filled in and the stored record
// is returned.
func (s *Store) Put(ctx context.Context, r Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return r, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Digest = strings.ToLower(r.Digest)
	data, err := json.Marshal(r)
	if err != nil {
		return r, fmt.Errorf("encode record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(recordKey(r.ID), data); err != nil {
			return err
		}
		return txn.Set(digestKey(r.Digest, r.ID), nil)
	})
	if err != nil {
		return r, fmt.Errorf("store record %s: %w", r.ID, err)
	}
	log.WithFields(log.Fields{"id": r.ID, "digest": r.Digest}).Debug("ledger: recorded proof")
	return r, nil
}

// Get loads a record by ID. A unique ID prefix of at least 8 characters is
// also accepted.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) && len(id) >= 8 {
			item, err = uniquePrefix(txn, recordKey(id))
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load record %s: %w", id, err)
	}
	return rec, nil
}

// List returns every record, oldest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// FindByDigest returns the records carrying digest.
func (s *Store) FindByDigest(ctx context.Context, digest string) ([]Record, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := digestKey(strings.ToLower(digest), "")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes a record and its digest index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(recordKey(rec.ID)); err != nil {
			return err
		}
		return txn.Delete(digestKey(rec.Digest, rec.ID))
	})
}

func recordKey(id string) []byte { return []byte(recordPrefix + id) }

func digestKey(digest, id string) []byte { return []byte(digestPrefix + digest + "/" + id) }

func uniquePrefix(txn *badger.Txn, prefix []byte) (*badger.Item, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()
	var key []byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if key != nil {
			return nil, fmt.Errorf("ambiguous record id %q", prefix[len(recordPrefix):])
		}
		key = it.Item().KeyCopy(nil)
	}
	if key == nil {
		return nil, badger.ErrKeyNotFound
	}
	return txn.Get(key)
}
