package ledger

import (
	"context"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	Update(fn func(Txn) error) error
	View(fn func(Txn) error) error
}

// Txn is a single atomic view of the store, all writes are discarded
// when the function passed to Update returns an error.
type Txn interface {
	Get(key []byte) ([]byte, error)
	Set(key, val []byte) error
	Delete(key []byte) error
	Iterate(prefix []byte, limit int, fn func(key, val []byte) error) error
}

type Worker interface {
	ProcessReceipt(context.Context, *Receipt)
}
