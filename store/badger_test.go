package store

import (
	"context"
	"errors"
	"testing"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BadgerStore {
	bs, err := OpenBadger(context.Background(), "")
	require.Nil(t, err)
	t.Cleanup(func() { bs.Close() })
	return bs
}

func TestProperty(t *testing.T) {
	bs := openTestStore(t)

	val, err := bs.ReadProperty([]byte("missing"))
	require.Nil(t, err)
	assert.Nil(t, val)

	require.Nil(t, bs.WriteProperty([]byte("key"), []byte("value")))
	val, err = bs.ReadProperty([]byte("key"))
	require.Nil(t, err)
	assert.Equal(t, []byte("value"), val)
}

func TestUpdateDiscardsOnError(t *testing.T) {
	bs := openTestStore(t)
	failure := errors.New("failure")

	err := bs.Update(func(txn ledger.Txn) error {
		require.Nil(t, txn.Set([]byte("a"), []byte("1")))
		return failure
	})
	assert.ErrorIs(t, err, failure)

	err = bs.View(func(txn ledger.Txn) error {
		val, err := txn.Get([]byte("a"))
		assert.Nil(t, val)
		return err
	})
	require.Nil(t, err)

	err = bs.Update(func(txn ledger.Txn) error {
		return txn.Set([]byte("a"), []byte("2"))
	})
	require.Nil(t, err)
	err = bs.Update(func(txn ledger.Txn) error {
		return txn.Delete([]byte("a"))
	})
	require.Nil(t, err)
	val, err := bs.ReadProperty([]byte("a"))
	require.Nil(t, err)
	assert.Nil(t, val)
}

func TestViewIsReadOnly(t *testing.T) {
	bs := openTestStore(t)

	err := bs.View(func(txn ledger.Txn) error {
		return txn.Set([]byte("a"), []byte("1"))
	})
	assert.NotNil(t, err)
}

func TestIteratePrefix(t *testing.T) {
	bs := openTestStore(t)

	err := bs.Update(func(txn ledger.Txn) error {
		for _, k := range []string{"LOG:3", "LOG:1", "LOG:2", "OTHER:1"} {
			err := txn.Set([]byte(k), []byte(k))
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.Nil(t, err)

	var keys []string
	err = bs.View(func(txn ledger.Txn) error {
		return txn.Iterate([]byte("LOG:"), 0, func(key, val []byte) error {
			assert.Equal(t, key, val)
			keys = append(keys, string(key))
			return nil
		})
	})
	require.Nil(t, err)
	assert.Equal(t, []string{"LOG:1", "LOG:2", "LOG:3"}, keys)

	keys = nil
	err = bs.View(func(txn ledger.Txn) error {
		return txn.Iterate([]byte("LOG:"), 2, func(key, val []byte) error {
			keys = append(keys, string(key))
			return nil
		})
	})
	require.Nil(t, err)
	assert.Equal(t, []string{"LOG:1", "LOG:2"}, keys)
}
