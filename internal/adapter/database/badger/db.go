package badger

import (
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
)

type Config struct {
	// Path is the data directory; empty keeps everything in memory.
	Path string
}

type DB struct {
	*badgerdb.DB
	ids *badgerdb.Sequence
}

var sequenceKey = []byte("seq/todo")

const sequenceBandwidth = 100

func NewDB(cfg Config) (*DB, error) {
	opts := badgerdb.DefaultOptions(cfg.Path).WithLogger(nil)

	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badgerdb.Open(opts)

	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}

	ids, err := db.GetSequence(sequenceKey, sequenceBandwidth)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("lease todo id sequence: %w", err)
	}

	return &DB{DB: db, ids: ids}, nil
}

// NextID returns the next todo id, starting at 1. Leased but unused ids are
// skipped after a restart, so ids are never handed out twice.
func (db *DB) NextID() (int64, error) {
	next, err := db.ids.Next()

	if err != nil {
		return 0, err
	}

	return int64(next) + 1, nil
}

func (db *DB) Close() error {
	if err := db.ids.Release(); err != nil {
		db.DB.Close()
		return err
	}

	return db.DB.Close()
}
