package store

import (
	"github.com/dgraph-io/badger/v4"
)

type badgerTxn struct {
	txn *badger.Txn
}

func (bt *badgerTxn) Get(key []byte) ([]byte, error) {
	item, err := bt.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (bt *badgerTxn) Set(key, val []byte) error {
	return bt.txn.Set(key, val)
}

func (bt *badgerTxn) Delete(key []byte) error {
	return bt.txn.Delete(key)
}

func (bt *badgerTxn) Iterate(prefix []byte, limit int, fn func(key, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := bt.txn.NewIterator(opts)
	defer it.Close()

	var count int
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		err = fn(item.KeyCopy(nil), val)
		if err != nil {
			return err
		}
		count += 1
		if count == limit {
			break
		}
	}
	return nil
}
