package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/lemonberrylabs/keycalc/pkg/theme"
)

const (
	bucketThemes  = "themes"
	bucketHistory = "history"
)

var initDB = map[string]func(tx *bolt.Tx) error{
	"initialize theme table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketThemes))
		return err
	},
	"initialize history table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketHistory))
		return err
	},
}

// BoltPersister is a Persister backed by a bbolt database file. Each
// session's history lives in a nested bucket keyed by sequence number.
type BoltPersister struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the database at path.
func OpenBolt(path string) (*BoltPersister, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltPersister{db: db}, nil
}

func (p *BoltPersister) LoadTheme(key string) (theme.Theme, error) {
	t := theme.Default
	err := p.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketThemes)).Get([]byte(key)); v != nil {
			t = theme.Parse(string(v))
		}
		return nil
	})
	return t, err
}

func (p *BoltPersister) SaveTheme(key string, t theme.Theme) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketThemes)).Put([]byte(key), []byte(theme.Normalize(t).String()))
	})
}

func (p *BoltPersister) AppendHistory(sessionID string, e HistoryEntry) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketHistory)).CreateBucketIfNotExists([]byte(sessionID))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		e.Seq = int(seq)
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), data)
	})
}

func (p *BoltPersister) History(sessionID string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := p.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHistory)).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var e HistoryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("history entry %d: %w", unmarshalSeq(k), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

func (p *BoltPersister) DeleteSession(sessionID string) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(bucketHistory)).DeleteBucket([]byte(sessionID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func (p *BoltPersister) Close() error {
	return p.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
