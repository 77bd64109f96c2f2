package store

import (
	"context"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/pfp/ledger"
	"github.com/dgraph-io/badger/v4"
)

type BadgerStore struct {
	db     *badger.DB
	closed chan struct{}
}

// OpenBadger opens the database at path, an empty path gives an in memory
// store which is discarded on Close.
func OpenBadger(ctx context.Context, path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts = opts.WithLoggingLevel(badger.WARNING)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	bs := &BadgerStore{
		db:     db,
		closed: make(chan struct{}),
	}
	if !opts.InMemory {
		go bs.loopGC(ctx)
	}
	return bs, nil
}

func (bs *BadgerStore) loopGC(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-bs.closed:
			return
		case <-time.After(5 * time.Minute):
		}
		lsm, vlog := bs.db.Size()
		logger.Printf("Badger LSM %d VLOG %d\n", lsm, vlog)
		if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
			err := bs.db.RunValueLogGC(0.5)
			logger.Printf("Badger RunValueLogGC %v\n", err)
		}
	}
}

func (bs *BadgerStore) Close() error {
	close(bs.closed)
	return bs.db.Close()
}

func (bs *BadgerStore) WriteProperty(key, val []byte) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func (bs *BadgerStore) ReadProperty(key []byte) ([]byte, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (bs *BadgerStore) Update(fn func(ledger.Txn) error) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

func (bs *BadgerStore) View(fn func(ledger.Txn) error) error {
	return bs.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}
